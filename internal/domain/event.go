package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategorySeminar    Category = "SEMINAR"
	CategorySocial     Category = "SOCIAL"
	CategoryWorkshop   Category = "WORKSHOP"
	CategoryConference Category = "CONFERENCE"
	CategoryCultural   Category = "CULTURAL"
	CategoryOther      Category = "OTHER"
)

var categoryLabels = map[Category]string{
	CategorySeminar:    "Seminar",
	CategorySocial:     "Social Event",
	CategoryWorkshop:   "Workshop",
	CategoryConference: "Conference",
	CategoryCultural:   "Cultural Event",
	CategoryOther:      "Other",
}

func Categories() []Category {
	return []Category{
		CategorySeminar,
		CategorySocial,
		CategoryWorkshop,
		CategoryConference,
		CategoryCultural,
		CategoryOther,
	}
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := categoryLabels[c]
	return c, ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Creator struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type Event struct {
	ID                   int        `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Venue                string     `json:"venue"`
	RegistrationLink     string     `json:"registration_link"`
	CoverImage           string     `json:"cover_image"`
	Category             Category   `json:"category"`
	Capacity             *int       `json:"capacity"`
	CurrentRegistrations int        `json:"current_registrations"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	CreatedBy            *Creator   `json:"created_by"`
	IsFull               bool       `json:"is_full"`
	SpotsLeft            *int       `json:"spots_left"`
	HasEnded             bool       `json:"has_ended"`
}

// Reference is the instant an event is treated as over: its end, or its
// start when no end is set.
func (e Event) Reference() time.Time {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.StartDate
}

// IsPast reports whether the event ended strictly before now.
func (e Event) IsPast(now time.Time) bool {
	return e.Reference().Before(now)
}

// EventInput is the writable part of an event.
type EventInput struct {
	Title            string
	Description      string
	StartDate        time.Time
	EndDate          *time.Time
	Venue            string
	RegistrationLink string
	Category         Category
	Capacity         *int
	IsActive         bool
}

func (e Event) Input() EventInput {
	return EventInput{
		Title:            e.Title,
		Description:      e.Description,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		Venue:            e.Venue,
		RegistrationLink: e.RegistrationLink,
		Category:         e.Category,
		Capacity:         e.Capacity,
		IsActive:         e.IsActive,
	}
}
