package domain

import "time"

type EmailStatus string

const (
	StatusPending  EmailStatus = "PENDING"
	StatusApproved EmailStatus = "APPROVED"
	StatusRejected EmailStatus = "REJECTED"
)

// IsTerminal reports whether no further moderation is possible.
func (s EmailStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Attachment is addressed by its position in Email.Attachments. The backend
// does not always send an id, and when it does the type varies.
type Attachment struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

func (a Attachment) SizeKB() int64 {
	return (a.Size + 512) / 1024
}

type Email struct {
	ID             int          `json:"id"`
	SenderEmail    string       `json:"sender_email"`
	Subject        string       `json:"subject"`
	Content        string       `json:"content"`
	HTMLContent    *string      `json:"html_content"`
	ReceivedAt     time.Time    `json:"received_at"`
	Status         EmailStatus  `json:"status"`
	StatusDisplay  string       `json:"status_display"`
	ApprovedByName *string      `json:"approved_by_name"`
	ApprovedAt     *time.Time   `json:"approved_at"`
	SentAt         *time.Time   `json:"sent_at"`
	HasAttachments bool         `json:"has_attachments"`
	Attachments    []Attachment `json:"attachments"`
}

// CanModerate reports whether approve/reject are available.
func (e Email) CanModerate() bool {
	return e.Status == StatusPending
}
