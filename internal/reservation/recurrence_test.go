package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestExpandNone(t *testing.T) {
	start := date(2025, time.March, 10, 9, 0)
	end := date(2025, time.March, 12, 18, 0)

	spans, err := Expand(start, end, nil)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, start, spans[0].Start)
	assert.Equal(t, end, spans[0].End)

	spans, err = Expand(start, end, &Rule{Type: RuleNone})
	require.NoError(t, err)
	require.Len(t, spans, 1)
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	start := date(2025, time.March, 10, 9, 0)

	_, err := Expand(start, start, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Expand(start, start.Add(-time.Hour), nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpandWeeklyMondays(t *testing.T) {
	// Base Monday Jan 6 2025, 09:00-18:00, every week on Mondays until Jan 27.
	start := date(2025, time.January, 6, 9, 0)
	end := date(2025, time.January, 6, 18, 0)
	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 1,
		EndDate:  date(2025, time.January, 27, 0, 0),
		Weekdays: []time.Weekday{time.Monday},
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)
	require.Len(t, spans, 4)

	for i, day := range []int{6, 13, 20, 27} {
		assert.Equal(t, date(2025, time.January, day, 9, 0), spans[i].Start)
		assert.Equal(t, date(2025, time.January, day, 18, 0), spans[i].End)
	}
}

func TestExpandWeeklyMultipleWeekdaysAndInterval(t *testing.T) {
	// Wednesday base; Mon+Wed every 2 weeks. The Monday of the base week
	// precedes the base start and must be dropped.
	start := date(2025, time.January, 8, 10, 0)
	end := date(2025, time.January, 8, 12, 0)
	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 2,
		EndDate:  date(2025, time.January, 31, 0, 0),
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)

	var starts []time.Time
	for _, sp := range spans {
		starts = append(starts, sp.Start)
	}
	assert.Equal(t, []time.Time{
		date(2025, time.January, 8, 10, 0),
		date(2025, time.January, 20, 10, 0),
		date(2025, time.January, 22, 10, 0),
	}, starts)
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	// Day 31, monthly through April: February clamps to 28, April to 30.
	start := date(2025, time.January, 31, 9, 0)
	end := date(2025, time.January, 31, 17, 0)
	rule := &Rule{
		Type:       RuleMonthly,
		Interval:   1,
		EndDate:    date(2025, time.April, 30, 0, 0),
		DayOfMonth: 31,
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)
	require.Len(t, spans, 4)

	assert.Equal(t, date(2025, time.January, 31, 9, 0), spans[0].Start)
	assert.Equal(t, date(2025, time.February, 28, 9, 0), spans[1].Start)
	assert.Equal(t, date(2025, time.March, 31, 9, 0), spans[2].Start)
	assert.Equal(t, date(2025, time.April, 30, 9, 0), spans[3].Start)
}

func TestExpandPreservesDuration(t *testing.T) {
	start := date(2025, time.January, 6, 9, 30)
	end := date(2025, time.January, 7, 11, 45)
	want := end.Sub(start)

	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 1,
		EndDate:  date(2025, time.February, 28, 0, 0),
		Weekdays: []time.Weekday{time.Monday, time.Thursday},
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)
	require.NotEmpty(t, spans)

	for _, sp := range spans {
		assert.Equal(t, want, sp.End.Sub(sp.Start))
		assert.False(t, sp.Start.Before(start), "no instance may precede the base start")
		assert.False(t, dateOnly(sp.Start).After(dateOnly(rule.EndDate)), "no instance may follow the rule end date")
	}
}

func TestExpandEndBeforeStartYieldsNothing(t *testing.T) {
	start := date(2025, time.June, 15, 9, 0)
	end := date(2025, time.June, 15, 18, 0)
	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 1,
		EndDate:  date(2025, time.June, 1, 0, 0),
		Weekdays: []time.Weekday{time.Sunday},
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestExpandOutputSortedAndDeduplicated(t *testing.T) {
	start := date(2025, time.January, 6, 9, 0)
	end := date(2025, time.January, 6, 18, 0)
	rule := &Rule{
		Type:     RuleWeekly,
		Interval: 1,
		EndDate:  date(2025, time.January, 20, 0, 0),
		// Duplicate weekday entries collapse to one instance per day.
		Weekdays: []time.Weekday{time.Monday, time.Monday, time.Wednesday},
	}

	spans, err := Expand(start, end, rule)
	require.NoError(t, err)

	for i := 1; i < len(spans); i++ {
		assert.True(t, spans[i-1].Start.Before(spans[i].Start), "spans must be strictly ascending")
	}
}

func TestRuleValidate(t *testing.T) {
	endDate := date(2025, time.December, 31, 0, 0)

	tests := []struct {
		name string
		rule Rule
		want error
	}{
		{"unknown type", Rule{Type: "yearly"}, ErrInvalidRuleType},
		{"zero interval", Rule{Type: RuleWeekly, Interval: 0, EndDate: endDate, Weekdays: []time.Weekday{time.Monday}}, ErrInvalidInterval},
		{"missing end date", Rule{Type: RuleMonthly, Interval: 1, DayOfMonth: 5}, ErrMissingEndDate},
		{"weekly without weekdays", Rule{Type: RuleWeekly, Interval: 1, EndDate: endDate}, ErrMissingWeekdays},
		{"monthly day out of range", Rule{Type: RuleMonthly, Interval: 1, EndDate: endDate, DayOfMonth: 32}, ErrInvalidDayOfMonth},
		{"valid weekly", Rule{Type: RuleWeekly, Interval: 1, EndDate: endDate, Weekdays: []time.Weekday{time.Friday}}, nil},
		{"valid none", Rule{Type: RuleNone}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
