// Package filter is the pure filtering and grouping pipeline behind the
// match list views. It never touches storage: callers hand it a collection
// and an extractor describing the fields the passes look at.
package filter

import (
	"strings"
	"time"
)

// Statuses and date ranges recognized in Options. Unrecognized values act
// like "all".
const (
	StatusAll      = "all"
	StatusUpcoming = "upcoming"
	StatusLive     = "live"
	StatusFinished = "finished"

	RangeAll      = "all"
	RangeToday    = "today"
	RangeTomorrow = "tomorrow"
	RangeWeek     = "week"
	RangeNextWeek = "nextWeek"
	RangeCustom   = "custom"
)

// Fields is the projection of one item that the passes inspect. Missing
// values stay zero; nothing here ever causes an error.
type Fields struct {
	Status  string
	Kickoff time.Time
	Date    string
	Home    string
	Away    string
	League  string
}

// Options is one filter configuration.
//
// Leagues is a selected-set, not an allow-list with a default: a nil slice
// means the league pass is not configured and everything passes, while an
// empty non-nil slice means nothing was selected and nothing passes.
// Callers presenting a league picker must start from the full league set.
type Options struct {
	Status    string
	DateRange string
	// Start and End are local calendar dates ("2006-01-02") and only
	// consulted when DateRange is "custom". End is inclusive. Either
	// bound missing disables the custom pass entirely.
	Start   string
	End     string
	Leagues []string
	Search  string
}

// Grouped is the presentation view: items bucketed by their exact date
// string, with Dates preserving first-seen order of the distinct keys.
type Grouped[T any] struct {
	Dates  []string
	ByDate map[string][]T
}

// Apply runs the passes in order (status, date, league, search) and groups
// what survives. Within a group, input order is preserved, so callers that
// want chronological groups must pass a kickoff-sorted collection.
func Apply[T any](items []T, fields func(T) Fields, opts Options, now time.Time) Grouped[T] {
	grouped := Grouped[T]{ByDate: map[string][]T{}}

	leagues := map[string]struct{}{}
	for _, l := range opts.Leagues {
		leagues[l] = struct{}{}
	}

	for _, item := range items {
		f := fields(item)
		if !statusPass(f, opts.Status) {
			continue
		}
		if !datePass(f, opts, now) {
			continue
		}
		if opts.Leagues != nil {
			if _, ok := leagues[f.League]; !ok {
				continue
			}
		}
		if !searchPass(f, opts.Search) {
			continue
		}

		if _, seen := grouped.ByDate[f.Date]; !seen {
			grouped.Dates = append(grouped.Dates, f.Date)
		}
		grouped.ByDate[f.Date] = append(grouped.ByDate[f.Date], item)
	}

	return grouped
}

// statusPass normalizes the wider feed vocabulary onto the internal one:
// a "live" filter also admits "in_play", a "finished" filter also admits
// "completed".
func statusPass(f Fields, want string) bool {
	if want == "" || want == StatusAll {
		return true
	}

	status := strings.ToLower(f.Status)
	switch want {
	case StatusLive:
		return status == StatusLive || status == "in_play"
	case StatusFinished:
		return status == StatusFinished || status == "completed"
	default:
		return status == want
	}
}

func datePass(f Fields, opts Options, now time.Time) bool {
	today := dayUTC(now)

	switch opts.DateRange {
	case RangeToday:
		return dayUTC(f.Kickoff).Equal(today)
	case RangeTomorrow:
		return dayUTC(f.Kickoff).Equal(today.AddDate(0, 0, 1))
	case RangeWeek:
		return inWindow(f.Kickoff, today, today.AddDate(0, 0, 7))
	case RangeNextWeek:
		return inWindow(f.Kickoff, today.AddDate(0, 0, 7), today.AddDate(0, 0, 14))
	case RangeCustom:
		start, errS := time.Parse("2006-01-02", opts.Start)
		end, errE := time.Parse("2006-01-02", opts.End)
		if errS != nil || errE != nil {
			// A half-configured custom range filters nothing.
			return true
		}
		return inWindow(f.Kickoff, start, end.AddDate(0, 0, 1))
	default:
		return true
	}
}

func searchPass(f Fields, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.Home), q) ||
		strings.Contains(strings.ToLower(f.Away), q) ||
		strings.Contains(strings.ToLower(f.League), q)
}

// dayUTC truncates an instant to its UTC calendar day.
func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inWindow reports whether t falls in the half-open window [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
