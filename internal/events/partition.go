// Package events splits the event collection into what is coming and what
// is over.
package events

import (
	"sort"
	"time"

	"github.com/goserg/clubsite/internal/domain"
)

type Partition struct {
	Upcoming []domain.Event
	Past     []domain.Event
}

// Split partitions events at now. An event is past when its end (or start,
// without an end) is strictly before now, so one ending exactly now is still
// upcoming. Upcoming events are soonest first, past events most recent first.
// Viewers without a board role do not see inactive events.
func Split(all []domain.Event, now time.Time, viewer domain.Role) Partition {
	var p Partition
	for _, e := range Visible(all, viewer) {
		if e.IsPast(now) {
			p.Past = append(p.Past, e)
		} else {
			p.Upcoming = append(p.Upcoming, e)
		}
	}
	sort.SliceStable(p.Upcoming, func(i, j int) bool {
		return p.Upcoming[i].StartDate.Before(p.Upcoming[j].StartDate)
	})
	sort.SliceStable(p.Past, func(i, j int) bool {
		return p.Past[i].StartDate.After(p.Past[j].StartDate)
	})
	return p
}

func Visible(all []domain.Event, viewer domain.Role) []domain.Event {
	if viewer.IsPrivileged() {
		return all
	}
	out := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out
}

// Next returns at most n upcoming events.
func (p Partition) Next(n int) []domain.Event {
	if len(p.Upcoming) <= n {
		return p.Upcoming
	}
	return p.Upcoming[:n]
}
