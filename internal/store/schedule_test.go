package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yonggyo1125/delivery-6h/internal/store"
)

func timeOfDay(t *testing.T, raw string) *store.TimeOfDay {
	t.Helper()
	parsed, err := store.ParseTimeOfDay(raw)
	assert.NoError(t, err)
	return &parsed
}

func breakTime(t *testing.T, startRaw, endRaw string) *store.BreakTime {
	t.Helper()
	return &store.BreakTime{
		Start: *timeOfDay(t, startRaw),
		End:   *timeOfDay(t, endRaw),
	}
}

// 2025-06-02 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func tuesdayAt(hour, minute int) time.Time {
	return mondayAt(hour, minute).AddDate(0, 0, 1)
}

func TestStore_IsOrderable(t *testing.T) {
	overnightMonday := store.Operation{
		DayOfWeek: time.Monday,
		StartHour: timeOfDay(t, "22:00"),
		EndHour:   timeOfDay(t, "02:00"),
	}

	tests := []struct {
		name       string
		status     store.StoreStatus
		operations []store.Operation
		now        time.Time
		expected   bool
	}{
		{
			name:     "not_open_status_never_orderable",
			status:   store.StatusPreparing,
			now:      mondayAt(23, 0),
			expected: false,
		},
		{
			name:     "closed_status_never_orderable",
			status:   store.StatusClosed,
			now:      mondayAt(23, 0),
			expected: false,
		},
		{
			name:     "no_entries_open_around_the_clock",
			status:   store.StatusOpen,
			now:      mondayAt(4, 30),
			expected: true,
		},
		{
			name:       "within_same_day_window",
			status:     store.StatusOpen,
			operations: []store.Operation{overnightMonday},
			now:        mondayAt(23, 0),
			expected:   true,
		},
		{
			name:       "overnight_continuation_into_tuesday",
			status:     store.StatusOpen,
			operations: []store.Operation{overnightMonday},
			now:        tuesdayAt(1, 0),
			expected:   true,
		},
		{
			name:       "overnight_window_already_closed",
			status:     store.StatusOpen,
			operations: []store.Operation{overnightMonday},
			now:        tuesdayAt(3, 0),
			expected:   false,
		},
		{
			name:       "before_opening_hour",
			status:     store.StatusOpen,
			operations: []store.Operation{overnightMonday},
			now:        mondayAt(21, 0),
			expected:   false,
		},
		{
			name:   "weekday_without_entry_is_closed",
			status: store.StatusOpen,
			operations: []store.Operation{
				{DayOfWeek: time.Wednesday, StartHour: timeOfDay(t, "09:00"), EndHour: timeOfDay(t, "18:00")},
			},
			now:      mondayAt(12, 0),
			expected: false,
		},
		{
			name:   "entry_without_hours_covers_whole_day",
			status: store.StatusOpen,
			operations: []store.Operation{
				{DayOfWeek: time.Monday},
			},
			now:      mondayAt(3, 0),
			expected: true,
		},
		{
			name:   "entry_without_hours_never_continues_overnight",
			status: store.StatusOpen,
			operations: []store.Operation{
				{DayOfWeek: time.Monday},
			},
			now:      tuesdayAt(3, 0),
			expected: false,
		},
		{
			name:   "inside_overnight_break",
			status: store.StatusOpen,
			operations: []store.Operation{
				{
					DayOfWeek:  time.Monday,
					StartHour:  timeOfDay(t, "22:00"),
					EndHour:    timeOfDay(t, "02:00"),
					BreakHour1: breakTime(t, "01:00", "01:30"),
				},
			},
			now:      tuesdayAt(1, 15),
			expected: false,
		},
		{
			name:   "after_overnight_break",
			status: store.StatusOpen,
			operations: []store.Operation{
				{
					DayOfWeek:  time.Monday,
					StartHour:  timeOfDay(t, "22:00"),
					EndHour:    timeOfDay(t, "02:00"),
					BreakHour1: breakTime(t, "01:00", "01:30"),
				},
			},
			now:      tuesdayAt(1, 45),
			expected: true,
		},
		{
			name:   "break_before_midnight_of_overnight_window",
			status: store.StatusOpen,
			operations: []store.Operation{
				{
					DayOfWeek:  time.Monday,
					StartHour:  timeOfDay(t, "22:00"),
					EndHour:    timeOfDay(t, "02:00"),
					BreakHour1: breakTime(t, "23:00", "23:30"),
				},
			},
			now:      mondayAt(23, 15),
			expected: false,
		},
		{
			name:   "break_start_is_inclusive_end_exclusive",
			status: store.StatusOpen,
			operations: []store.Operation{
				{
					DayOfWeek:  time.Monday,
					StartHour:  timeOfDay(t, "09:00"),
					EndHour:    timeOfDay(t, "18:00"),
					BreakHour1: breakTime(t, "12:00", "13:00"),
				},
			},
			now:      mondayAt(13, 0),
			expected: true,
		},
		{
			name:   "second_break_window_applies",
			status: store.StatusOpen,
			operations: []store.Operation{
				{
					DayOfWeek:  time.Monday,
					StartHour:  timeOfDay(t, "09:00"),
					EndHour:    timeOfDay(t, "22:00"),
					BreakHour1: breakTime(t, "12:00", "13:00"),
					BreakHour2: breakTime(t, "17:00", "17:30"),
				},
			},
			now:      mondayAt(17, 10),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &store.Store{Status: tt.status, Operations: tt.operations}
			assert.Equal(t, tt.expected, s.IsOrderable(tt.now))
		})
	}
}
