package inbox

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	pages   []domain.Page[domain.Email]
	emails  map[int]domain.Email
	calls   []string
	checks  atomic.Int32
	release chan struct{}
	dlErr   error
	dl      backend.Download
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListEmails(_ context.Context, _ string, page int) (domain.Page[domain.Email], error) {
	f.record("list")
	if page < 1 || page > len(f.pages) {
		return domain.Page[domain.Email]{}, &backend.APIError{Status: http.StatusNotFound}
	}
	return f.pages[page-1], nil
}

func (f *fakeAPI) GetEmail(_ context.Context, _ string, id int) (domain.Email, error) {
	f.record("get")
	e, ok := f.emails[id]
	if !ok {
		return domain.Email{}, &backend.APIError{Status: http.StatusNotFound}
	}
	return e, nil
}

func (f *fakeAPI) ApproveEmail(context.Context, string, int) error {
	f.record("approve")
	return nil
}

func (f *fakeAPI) RejectEmail(context.Context, string, int) error {
	f.record("reject")
	return nil
}

func (f *fakeAPI) DeleteEmail(context.Context, string, int) error {
	f.record("delete")
	return nil
}

func (f *fakeAPI) CheckNewEmails(context.Context, string) error {
	f.checks.Add(1)
	if f.release != nil {
		<-f.release
	}
	return nil
}

func (f *fakeAPI) Download(context.Context, string, string) (backend.Download, error) {
	f.record("download")
	return f.dl, f.dlErr
}

type hookFunc func(ctx context.Context, emails []domain.Email)

func (h hookFunc) EmailsChecked(ctx context.Context, emails []domain.Email) { h(ctx, emails) }

var (
	admin = domain.User{ID: 1, Username: "root", Email: "root@club.org", Role: domain.RoleAdmin}
	board = domain.User{ID: 2, Username: "ana", Email: "Ana@Club.org", Role: domain.RoleBoard}
)

func next() *string {
	s := "next"
	return &s
}

func testInbox(api *fakeAPI) *Inbox {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return New(api, l)
}

func emailIDs(emails []domain.Email) []int {
	out := make([]int, 0, len(emails))
	for _, e := range emails {
		out = append(out, e.ID)
	}
	return out
}

func TestCanView(t *testing.T) {
	mine := domain.Email{SenderEmail: "ana@club.org"}
	theirs := domain.Email{SenderEmail: "bob@club.org"}
	tests := []struct {
		name   string
		viewer domain.User
		email  domain.Email
		want   bool
	}{
		{"admin sees any", admin, theirs, true},
		{"president sees any", domain.User{Role: domain.RolePresident}, theirs, true},
		{"board sees own ignoring case", board, mine, true},
		{"board does not see others", board, theirs, false},
		{"board without email sees nothing", domain.User{Role: domain.RoleBoard}, domain.Email{}, false},
		{"member sees nothing", domain.User{Email: "ana@club.org"}, mine, false},
		{"unicode folding", domain.User{Role: domain.RoleBoard, Email: "STRASSE@club.org"}, domain.Email{SenderEmail: "strasse@CLUB.org"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanView(tt.viewer, tt.email))
		})
	}
}

func TestInbox_LoadAppendsPages(t *testing.T) {
	api := &fakeAPI{pages: []domain.Page[domain.Email]{
		{Count: 5, Next: next(), Results: []domain.Email{{ID: 1}, {ID: 2}}},
		{Count: 5, Next: next(), Results: []domain.Email{{ID: 3}, {ID: 4}}},
		{Count: 5, Results: []domain.Email{{ID: 5}}},
	}}
	in := testInbox(api)

	l, err := in.Load(context.Background(), "t", admin, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, emailIDs(l.Emails))
	assert.True(t, l.HasMore)
	assert.Equal(t, 2, l.Pages)

	l, err = in.Load(context.Background(), "t", admin, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, emailIDs(l.Emails))
	assert.False(t, l.HasMore)
	assert.Equal(t, 3, l.Pages)
	assert.Equal(t, 5, l.Total)
}

func TestInbox_LoadFiltersForBoard(t *testing.T) {
	api := &fakeAPI{pages: []domain.Page[domain.Email]{{Results: []domain.Email{
		{ID: 1, SenderEmail: "ana@club.org"},
		{ID: 2, SenderEmail: "bob@club.org"},
		{ID: 3, SenderEmail: "ANA@CLUB.ORG"},
	}}}}
	l, err := testInbox(api).Load(context.Background(), "t", board, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, emailIDs(l.Emails))
}

func TestInbox_Moderation(t *testing.T) {
	pending := domain.Email{ID: 7, SenderEmail: "bob@club.org", Status: domain.StatusPending}
	tests := []struct {
		name    string
		viewer  domain.User
		email   domain.Email
		act     func(in *Inbox, v domain.User, e domain.Email) error
		wantErr error
		want    []string
	}{
		{
			name:   "approve pending",
			viewer: admin,
			email:  pending,
			act:    func(in *Inbox, v domain.User, e domain.Email) error { return in.Approve(context.Background(), "t", v, e) },
			want:   []string{"approve"},
		},
		{
			name:   "reject pending",
			viewer: admin,
			email:  pending,
			act:    func(in *Inbox, v domain.User, e domain.Email) error { return in.Reject(context.Background(), "t", v, e) },
			want:   []string{"reject"},
		},
		{
			name:    "approve approved",
			viewer:  admin,
			email:   domain.Email{ID: 7, Status: domain.StatusApproved},
			act:     func(in *Inbox, v domain.User, e domain.Email) error { return in.Approve(context.Background(), "t", v, e) },
			wantErr: ErrNotPending,
		},
		{
			name:    "reject rejected",
			viewer:  admin,
			email:   domain.Email{ID: 7, Status: domain.StatusRejected},
			act:     func(in *Inbox, v domain.User, e domain.Email) error { return in.Reject(context.Background(), "t", v, e) },
			wantErr: ErrNotPending,
		},
		{
			name:   "delete terminal",
			viewer: admin,
			email:  domain.Email{ID: 7, Status: domain.StatusRejected},
			act:    func(in *Inbox, v domain.User, e domain.Email) error { return in.Delete(context.Background(), "t", v, e) },
			want:   []string{"delete"},
		},
		{
			name:    "board on foreign email",
			viewer:  board,
			email:   pending,
			act:     func(in *Inbox, v domain.User, e domain.Email) error { return in.Approve(context.Background(), "t", v, e) },
			wantErr: ErrNotAllowed,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := &fakeAPI{}
			err := tt.act(testInbox(api), tt.viewer, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, api.Calls())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, api.Calls())
		})
	}
}

func TestInbox_GetHidesForeignEmails(t *testing.T) {
	api := &fakeAPI{emails: map[int]domain.Email{
		1: {ID: 1, SenderEmail: "bob@club.org"},
	}}
	in := testInbox(api)

	_, err := in.Get(context.Background(), "t", board, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = in.Get(context.Background(), "t", admin, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	e, err := in.Get(context.Background(), "t", admin, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
}

func TestInbox_CheckNewRefetchesFirstPage(t *testing.T) {
	api := &fakeAPI{pages: []domain.Page[domain.Email]{
		{Count: 3, Next: next(), Results: []domain.Email{{ID: 9, Status: domain.StatusPending}}},
		{Count: 3, Results: []domain.Email{{ID: 1}}},
	}}
	in := testInbox(api)
	var seen []int
	in.AddHook(hookFunc(func(_ context.Context, emails []domain.Email) {
		seen = emailIDs(emails)
	}))

	l, err := in.CheckNew(context.Background(), "t", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.checks.Load())
	assert.Equal(t, []string{"list"}, api.Calls())
	assert.Equal(t, []int{9}, emailIDs(l.Emails))
	assert.True(t, l.HasMore)
	assert.Equal(t, []int{9}, seen)
}

func TestInbox_CheckNewCoalesces(t *testing.T) {
	api := &fakeAPI{
		pages:   []domain.Page[domain.Email]{{Results: []domain.Email{{ID: 1}}}},
		release: make(chan struct{}),
	}
	in := testInbox(api)

	var wg sync.WaitGroup
	for n := 0; n < 4; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := in.CheckNew(context.Background(), "t", admin)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(api.release)
	wg.Wait()

	assert.EqualValues(t, 1, api.checks.Load())
}

func TestInbox_CheckNewHonoursContext(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{})}
	defer close(api.release)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testInbox(api).CheckNew(ctx, "t", admin)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInbox_Download(t *testing.T) {
	email := domain.Email{
		ID:          3,
		SenderEmail: "ana@club.org",
		Attachments: []domain.Attachment{
			{Filename: "minutes.txt", URL: "/media/a0"},
			{Filename: "agenda.pdf", ContentType: "application/pdf", URL: "/media/a1"},
		},
	}
	api := &fakeAPI{
		emails: map[int]domain.Email{3: email},
		dl:     backend.Download{ContentType: "application/octet-stream", Body: []byte("%PDF")},
	}
	in := testInbox(api)

	f, err := in.Download(context.Background(), "t", board, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "agenda.pdf", f.Filename)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, []byte("%PDF"), f.Body)

	for _, n := range []int{-1, 2} {
		_, err = in.Download(context.Background(), "t", board, 3, n)
		assert.ErrorIs(t, err, ErrAttachmentNotFound)
	}
}

func TestDownloadMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing attachment", ErrAttachmentNotFound, MsgAttachmentGone},
		{"404", &backend.APIError{Status: http.StatusNotFound}, MsgAttachmentGone},
		{"403", &backend.APIError{Status: http.StatusForbidden}, MsgAttachmentForbidden},
		{"500", &backend.APIError{Status: http.StatusInternalServerError}, MsgAttachmentServer},
		{"timeout", backend.ErrTimeout, MsgAttachmentTimeout},
		{"network", backend.ErrUnavailable, MsgAttachmentFailed},
		{"too large", backend.ErrTooLarge, MsgAttachmentFailed},
		{"502", &backend.APIError{Status: http.StatusBadGateway}, MsgAttachmentFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DownloadMessage(tt.err), tt.name)
	}
}
