package schedule

import (
	"testing"
	"time"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-19 is a Monday, 2026-10-24 a Saturday.
func at(t *testing.T, date string, hour, minute int) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, date)
	require.NoError(t, err)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 30, 0, time.UTC)
}

func TestCurrentSlot(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		hour     int
		minute   int
		wantSlot model.MealSlot
		wantOpen bool
	}{
		{name: "Weekday breakfast opens 7:30", date: "2026-10-19", hour: 7, minute: 30, wantSlot: model.MealSlotBreakfast, wantOpen: true},
		{name: "Weekday breakfast closing minute is inclusive", date: "2026-10-19", hour: 9, minute: 45, wantSlot: model.MealSlotBreakfast, wantOpen: true},
		{name: "Weekday 9:50 closed", date: "2026-10-19", hour: 9, minute: 50, wantOpen: false},
		{name: "Weekend 7:30 still closed", date: "2026-10-24", hour: 7, minute: 30, wantOpen: false},
		{name: "Weekend breakfast until 10:00", date: "2026-10-24", hour: 10, minute: 0, wantSlot: model.MealSlotBreakfast, wantOpen: true},
		{name: "Lunch", date: "2026-10-20", hour: 13, minute: 0, wantSlot: model.MealSlotLunch, wantOpen: true},
		{name: "Weekday snacks close 18:15", date: "2026-10-21", hour: 18, minute: 20, wantOpen: false},
		{name: "Weekend snacks until 18:30", date: "2026-10-25", hour: 18, minute: 20, wantSlot: model.MealSlotEveningSnacks, wantOpen: true},
		{name: "Dinner", date: "2026-10-22", hour: 21, minute: 45, wantSlot: model.MealSlotDinner, wantOpen: true},
		{name: "Midnight", date: "2026-10-22", hour: 0, minute: 0, wantOpen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, open := CurrentSlot(at(t, tt.date, tt.hour, tt.minute))
			assert.Equal(t, tt.wantOpen, open)
			assert.Equal(t, tt.wantSlot, slot)
		})
	}
}

func TestDayTypeOf(t *testing.T) {
	assert.Equal(t, model.DayTypeWeekday, DayTypeOf(at(t, "2026-10-23", 12, 0)))
	assert.Equal(t, model.DayTypeWeekend, DayTypeOf(at(t, "2026-10-24", 12, 0)))
	assert.Equal(t, model.DayTypeWeekend, DayTypeOf(at(t, "2026-10-25", 12, 0)))
	assert.True(t, IsWeekend(at(t, "2026-10-25", 12, 0)))
}

func TestTimetable(t *testing.T) {
	rows := Timetable(at(t, "2026-10-24", 17, 0))

	require.Len(t, rows, 4)
	assert.Equal(t, model.MealSlotBreakfast, rows[0].Slot)
	assert.Equal(t, "Breakfast", rows[0].Name)
	assert.Equal(t, "7:45 AM - 10:00 AM", rows[0].Time)
	assert.Equal(t, "12:00 PM - 2:15 PM", rows[1].Time)
	assert.Equal(t, "4:30 PM - 6:30 PM", rows[2].Time)
	assert.True(t, rows[2].Current)
	assert.False(t, rows[0].Current)
	assert.Equal(t, "7:30 PM - 9:45 PM", rows[3].Time)
}

func TestClock_UsesInstitutionTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on Friday is 01:30 Saturday in IST.
	fixed := time.Date(2026, 10, 23, 20, 0, 0, 0, time.UTC)
	clock := NewClock(loc, func() time.Time { return fixed })

	assert.Equal(t, "2026-10-24", clock.Today())
	assert.Equal(t, model.DayTypeWeekend, DayTypeOf(clock.Now()))

	parsed, err := clock.ParseDate("2026-10-24")
	require.NoError(t, err)
	assert.Equal(t, loc, parsed.Location())

	_, err = clock.ParseDate("24/10/2026")
	assert.Error(t, err)
}

func TestWindowFor(t *testing.T) {
	w, ok := WindowFor(model.MealSlotBreakfast, model.DayTypeWeekend)
	require.True(t, ok)
	assert.Equal(t, Window{Open: 465, Close: 600}, w)

	_, ok = WindowFor(model.MealSlot("brunch"), model.DayTypeWeekday)
	assert.False(t, ok)
}
