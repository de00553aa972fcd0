package backend

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/goserg/clubsite/internal/domain"
)

const eventsPath = "api/events/"

// ListEvents fetches every event visible to the token holder.
func (c *Client) ListEvents(ctx context.Context, token string) ([]domain.Event, error) {
	return fetchAll[domain.Event](ctx, c, eventsPath, token)
}

func (c *Client) GetEvent(ctx context.Context, token string, id int) (domain.Event, error) {
	var event domain.Event
	err := c.getJSON(ctx, idPath(eventsPath, id), nil, token, &event)
	return event, err
}

func (c *Client) CreateEvent(ctx context.Context, token string, in domain.EventInput) (domain.Event, error) {
	var event domain.Event
	err := c.sendForm(ctx, http.MethodPost, eventsPath, token, eventFields(in), &event)
	return event, err
}

func (c *Client) UpdateEvent(ctx context.Context, token string, id int, in domain.EventInput) (domain.Event, error) {
	var event domain.Event
	err := c.sendForm(ctx, http.MethodPut, idPath(eventsPath, id), token, eventFields(in), &event)
	return event, err
}

func (c *Client) SetEventActive(ctx context.Context, token string, id int, active bool) (domain.Event, error) {
	var event domain.Event
	err := c.sendForm(ctx, http.MethodPatch, idPath(eventsPath, id), token, []formField{
		{name: "is_active", value: strconv.FormatBool(active)},
	}, &event)
	return event, err
}

func (c *Client) DeleteEvent(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath(eventsPath, id), token: token}, nil)
}

func eventFields(in domain.EventInput) []formField {
	end := ""
	if in.EndDate != nil {
		end = in.EndDate.UTC().Format(time.RFC3339)
	}
	capacity := ""
	if in.Capacity != nil {
		capacity = strconv.Itoa(*in.Capacity)
	}
	return []formField{
		{name: "title", value: in.Title},
		{name: "description", value: in.Description},
		{name: "start_date", value: in.StartDate.UTC().Format(time.RFC3339)},
		{name: "end_date", value: end},
		{name: "venue", value: in.Venue},
		{name: "registration_link", value: in.RegistrationLink},
		{name: "category", value: string(in.Category)},
		{name: "capacity", value: capacity},
		{name: "is_active", value: strconv.FormatBool(in.IsActive)},
	}
}
