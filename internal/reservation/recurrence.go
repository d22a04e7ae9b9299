package reservation

import (
	"sort"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrInvalidRuleType   = apperror.Validation("invalid recurrence rule type")
	ErrInvalidInterval   = apperror.Validation("recurrence interval must be at least 1")
	ErrMissingEndDate    = apperror.Validation("recurrence rule requires an end date")
	ErrMissingWeekdays   = apperror.Validation("weekly recurrence requires at least one weekday")
	ErrInvalidDayOfMonth = apperror.Validation("monthly recurrence day must be between 1 and 31")
)

// RuleType selects the recurrence cadence.
type RuleType string

const (
	RuleNone    RuleType = "none"
	RuleWeekly  RuleType = "weekly"
	RuleMonthly RuleType = "monthly"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleNone, RuleWeekly, RuleMonthly:
		return true
	}
	return false
}

// Rule describes how one requested date range repeats.
// Weekdays applies to weekly rules, DayOfMonth to monthly ones.
type Rule struct {
	Type       RuleType       `json:"type"`
	Interval   int            `json:"interval,omitempty"`
	EndDate    time.Time      `json:"end_date,omitempty"`
	Weekdays   []time.Weekday `json:"weekdays,omitempty"`
	DayOfMonth int            `json:"day_of_month,omitempty"`
}

// Validate rejects rules that cannot produce a well-defined expansion.
func (r *Rule) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidRuleType
	}
	if r.Type == RuleNone {
		return nil
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	if r.EndDate.IsZero() {
		return ErrMissingEndDate
	}
	switch r.Type {
	case RuleWeekly:
		if len(r.Weekdays) == 0 {
			return ErrMissingWeekdays
		}
	case RuleMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return ErrInvalidDayOfMonth
		}
	}
	return nil
}

// Span is one concrete (start, end) pair produced by expansion.
type Span struct {
	Start time.Time
	End   time.Time
}

// Expand turns the base range plus the rule into an ordered, deduplicated,
// finite sequence of spans. Every span keeps the base duration and the base
// time of day; no span starts before the base start or on a calendar day
// after the rule's end date. An empty result is not an error here; the
// orchestrator rejects it as nothing to schedule.
func Expand(start, end time.Time, rule *Rule) ([]Span, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}
	if rule == nil || rule.Type == RuleNone {
		return []Span{{Start: start, End: end}}, nil
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	duration := end.Sub(start)

	var spans []Span
	switch rule.Type {
	case RuleWeekly:
		spans = expandWeekly(start, duration, rule)
	case RuleMonthly:
		spans = expandMonthly(start, duration, rule)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start.Before(spans[j].Start) })
	return dedupe(spans), nil
}

// expandWeekly walks cadence weeks (weeks are Monday-based) and emits one
// instance per selected weekday inside each cadence week.
func expandWeekly(start time.Time, duration time.Duration, rule *Rule) []Span {
	selected := make(map[time.Weekday]bool, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		selected[wd] = true
	}

	weekStart := startOfWeek(start)
	lastDay := dateOnly(rule.EndDate)

	var spans []Span
	for !weekStart.After(lastDay) {
		for offset := 0; offset < 7; offset++ {
			day := weekStart.AddDate(0, 0, offset)
			if !selected[day.Weekday()] {
				continue
			}
			s := withTimeOfDay(day, start)
			if s.Before(start) || dateOnly(s).After(lastDay) {
				continue
			}
			spans = append(spans, Span{Start: s, End: s.Add(duration)})
		}
		weekStart = weekStart.AddDate(0, 0, 7*rule.Interval)
	}
	return spans
}

// expandMonthly anchors on the first of the base month and emits one
// instance per cadence month on the configured day, clamped to the last day
// of months too short to contain it.
func expandMonthly(start time.Time, duration time.Duration, rule *Rule) []Span {
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	lastDay := dateOnly(rule.EndDate)

	var spans []Span
	for step := 0; ; step++ {
		month := anchor.AddDate(0, step*rule.Interval, 0)
		if dateOnly(month).After(lastDay) {
			break
		}
		day := rule.DayOfMonth
		if max := daysInMonth(month.Year(), month.Month()); day > max {
			day = max
		}
		instanceDay := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, start.Location())
		s := withTimeOfDay(instanceDay, start)
		if s.Before(start) || dateOnly(s).After(lastDay) {
			continue
		}
		spans = append(spans, Span{Start: s, End: s.Add(duration)})
	}
	return spans
}

func dedupe(spans []Span) []Span {
	out := spans[:0]
	for i, sp := range spans {
		if i > 0 && sp.Start.Equal(spans[i-1].Start) && sp.End.Equal(spans[i-1].End) {
			continue
		}
		out = append(out, sp)
	}
	return out
}

// startOfWeek returns midnight of the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	d := dateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withTimeOfDay combines day's calendar date with base's clock time.
func withTimeOfDay(day, base time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
