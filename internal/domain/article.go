package domain

import "time"

type Article struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Author        *Creator  `json:"author"`
	Image         string    `json:"image"`
	PublishedDate time.Time `json:"published_date"`
	IsPublished   bool      `json:"is_published"`
}
