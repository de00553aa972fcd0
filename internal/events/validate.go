package events

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/clubsite/internal/domain"
)

// Form is the raw event form as submitted by the browser.
type Form struct {
	Title            string
	Description      string
	StartDate        string
	EndDate          string
	Venue            string
	RegistrationLink string
	Category         string
	Capacity         string
	IsActive         bool
}

// FormLayout matches <input type="datetime-local">.
const FormLayout = "2006-01-02T15:04"

func FormFromEvent(e domain.Event, loc *time.Location) Form {
	f := Form{
		Title:            e.Title,
		Description:      e.Description,
		StartDate:        e.StartDate.In(loc).Format(FormLayout),
		Venue:            e.Venue,
		RegistrationLink: e.RegistrationLink,
		Category:         string(e.Category),
		IsActive:         e.IsActive,
	}
	if e.EndDate != nil {
		f.EndDate = e.EndDate.In(loc).Format(FormLayout)
	}
	if e.Capacity != nil {
		f.Capacity = strconv.Itoa(*e.Capacity)
	}
	return f
}

// Parse validates the form and converts it to backend input. All problems
// are reported together.
func (f Form) Parse(loc *time.Location) (domain.EventInput, error) {
	var err error
	in := domain.EventInput{
		Title:            strings.TrimSpace(f.Title),
		Description:      strings.TrimSpace(f.Description),
		Venue:            strings.TrimSpace(f.Venue),
		RegistrationLink: strings.TrimSpace(f.RegistrationLink),
		IsActive:         f.IsActive,
	}
	if in.Title == "" {
		err = errors.Join(err, errors.New("title is required"))
	}
	if in.Description == "" {
		err = errors.Join(err, errors.New("description is required"))
	}
	if in.Venue == "" {
		err = errors.Join(err, errors.New("venue is required"))
	}

	start, perr := time.ParseInLocation(FormLayout, strings.TrimSpace(f.StartDate), loc)
	if perr != nil {
		err = errors.Join(err, errors.New("start date is invalid"))
	}
	in.StartDate = start
	if s := strings.TrimSpace(f.EndDate); s != "" {
		end, perr := time.ParseInLocation(FormLayout, s, loc)
		switch {
		case perr != nil:
			err = errors.Join(err, errors.New("end date is invalid"))
		case !start.IsZero() && end.Before(start):
			err = errors.Join(err, errors.New("end date must not be before start date"))
		default:
			in.EndDate = &end
		}
	}

	category, ok := domain.ParseCategory(f.Category)
	if f.Category == "" {
		category, ok = domain.CategoryOther, true
	}
	if !ok {
		err = errors.Join(err, errors.New("unknown category"))
	}
	in.Category = category

	if s := strings.TrimSpace(f.Capacity); s != "" {
		n, cerr := strconv.Atoi(s)
		if cerr != nil || n < 0 {
			err = errors.Join(err, errors.New("capacity must be a non-negative number"))
		} else {
			in.Capacity = &n
		}
	}

	if in.RegistrationLink != "" {
		u, uerr := url.Parse(in.RegistrationLink)
		if uerr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			err = errors.Join(err, errors.New("registration link must be an http(s) url"))
		}
	}
	if err != nil {
		return domain.EventInput{}, err
	}
	return in, nil
}
