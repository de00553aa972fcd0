// Package inbox implements the moderation queue for mail sent to the club
// list: paging, approve/reject/delete, new mail checks and attachments.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotPending         = errors.New("email is no longer pending")
	ErrNotFound           = errors.New("email not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNotAllowed         = errors.New("not allowed to act on this email")
)

const (
	MsgAttachmentGone      = "Attachment not found. It may have expired."
	MsgAttachmentForbidden = "You do not have permission to download this attachment."
	MsgAttachmentServer    = "Server error while downloading attachment. Please try again later."
	MsgAttachmentTimeout   = "Download timed out. Please try again."
	MsgAttachmentFailed    = "Failed to download attachment. Please try again."
)

// MaxPages bounds how far "show more" may go in one request.
const MaxPages = 20

type EmailAPI interface {
	ListEmails(ctx context.Context, token string, page int) (domain.Page[domain.Email], error)
	GetEmail(ctx context.Context, token string, id int) (domain.Email, error)
	ApproveEmail(ctx context.Context, token string, id int) error
	RejectEmail(ctx context.Context, token string, id int) error
	DeleteEmail(ctx context.Context, token string, id int) error
	CheckNewEmails(ctx context.Context, token string) error
	Download(ctx context.Context, token, rawURL string) (backend.Download, error)
}

// CheckHook is told about the first page after every successful check.
type CheckHook interface {
	EmailsChecked(ctx context.Context, emails []domain.Email)
}

type Inbox struct {
	api   EmailAPI
	group singleflight.Group
	hooks []CheckHook
	log   *logrus.Entry
}

func New(api EmailAPI, l *logrus.Logger) *Inbox {
	return &Inbox{
		api: api,
		log: l.WithField("name", "inbox"),
	}
}

func (i *Inbox) AddHook(h CheckHook) {
	i.hooks = append(i.hooks, h)
}

type Listing struct {
	Emails  []domain.Email
	Total   int
	Pages   int
	HasMore bool
}

// Load fetches pages 1..pages in order and concatenates them.
func (i *Inbox) Load(ctx context.Context, token string, viewer domain.User, pages int) (Listing, error) {
	if pages < 1 {
		pages = 1
	}
	if pages > MaxPages {
		pages = MaxPages
	}
	var l Listing
	for n := 1; n <= pages; n++ {
		page, err := i.api.ListEmails(ctx, token, n)
		if err != nil {
			return Listing{}, err
		}
		l.Emails = append(l.Emails, visible(viewer, page.Results)...)
		l.Total = page.Count
		l.Pages = n
		l.HasMore = page.HasNext()
		if !l.HasMore {
			break
		}
	}
	return l, nil
}

// Get returns a single email the viewer is allowed to see.
func (i *Inbox) Get(ctx context.Context, token string, viewer domain.User, id int) (domain.Email, error) {
	e, err := i.api.GetEmail(ctx, token, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return domain.Email{}, ErrNotFound
		}
		return domain.Email{}, err
	}
	if !CanView(viewer, e) {
		return domain.Email{}, ErrNotFound
	}
	return e, nil
}

func (i *Inbox) Approve(ctx context.Context, token string, viewer domain.User, e domain.Email) error {
	if err := moderatable(viewer, e); err != nil {
		return err
	}
	if err := i.api.ApproveEmail(ctx, token, e.ID); err != nil {
		return fmt.Errorf("approve email %d: %w", e.ID, err)
	}
	i.log.WithField("email", e.ID).WithField("by", viewer.Username).Info("approved")
	return nil
}

func (i *Inbox) Reject(ctx context.Context, token string, viewer domain.User, e domain.Email) error {
	if err := moderatable(viewer, e); err != nil {
		return err
	}
	if err := i.api.RejectEmail(ctx, token, e.ID); err != nil {
		return fmt.Errorf("reject email %d: %w", e.ID, err)
	}
	i.log.WithField("email", e.ID).WithField("by", viewer.Username).Info("rejected")
	return nil
}

func moderatable(viewer domain.User, e domain.Email) error {
	if !CanAct(viewer, e) {
		return ErrNotAllowed
	}
	if !e.CanModerate() {
		return ErrNotPending
	}
	return nil
}

// Delete works in any state.
func (i *Inbox) Delete(ctx context.Context, token string, viewer domain.User, e domain.Email) error {
	if !CanAct(viewer, e) {
		return ErrNotAllowed
	}
	if err := i.api.DeleteEmail(ctx, token, e.ID); err != nil {
		return fmt.Errorf("delete email %d: %w", e.ID, err)
	}
	i.log.WithField("email", e.ID).WithField("by", viewer.Username).Info("deleted")
	return nil
}

// CheckNew asks the backend to pull the mailbox and returns the fresh first
// page. Concurrent calls share a single backend request.
func (i *Inbox) CheckNew(ctx context.Context, token string, viewer domain.User) (Listing, error) {
	ch := i.group.DoChan("check_new", func() (any, error) {
		return nil, i.api.CheckNewEmails(context.WithoutCancel(ctx), token)
	})
	select {
	case <-ctx.Done():
		return Listing{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Listing{}, fmt.Errorf("check new emails: %w", res.Err)
		}
	}

	page, err := i.api.ListEmails(ctx, token, 1)
	if err != nil {
		return Listing{}, err
	}
	for _, h := range i.hooks {
		h.EmailsChecked(ctx, page.Results)
	}
	return Listing{
		Emails:  visible(viewer, page.Results),
		Total:   page.Count,
		Pages:   1,
		HasMore: page.HasNext(),
	}, nil
}

type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Download fetches the n-th attachment of an email the viewer can see. Errors
// carry a message fit for the user, see DownloadMessage.
func (i *Inbox) Download(ctx context.Context, token string, viewer domain.User, emailID, n int) (File, error) {
	e, err := i.Get(ctx, token, viewer, emailID)
	if err != nil {
		return File{}, err
	}
	if n < 0 || n >= len(e.Attachments) || e.Attachments[n].URL == "" {
		return File{}, ErrAttachmentNotFound
	}
	att := e.Attachments[n]

	d, err := i.api.Download(ctx, token, att.URL)
	if err != nil {
		i.log.WithError(err).WithField("email", emailID).WithField("attachment", n).Warn("download failed")
		return File{}, err
	}
	ct := d.ContentType
	if att.ContentType != "" && ct == "application/octet-stream" {
		ct = att.ContentType
	}
	return File{Filename: att.Filename, ContentType: ct, Body: d.Body}, nil
}

// DownloadMessage maps a Download error to the text shown to the user.
func DownloadMessage(err error) string {
	switch {
	case errors.Is(err, ErrAttachmentNotFound), errors.Is(err, ErrNotFound):
		return MsgAttachmentGone
	case errors.Is(err, backend.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return MsgAttachmentTimeout
	}
	switch backend.Status(err) {
	case http.StatusNotFound:
		return MsgAttachmentGone
	case http.StatusForbidden:
		return MsgAttachmentForbidden
	case http.StatusInternalServerError:
		return MsgAttachmentServer
	}
	return MsgAttachmentFailed
}
