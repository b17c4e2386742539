// Package schedule holds the static mess timetable and answers "which day is
// today" and "which slot is open now" in the institution's timezone.
package schedule

import (
	"fmt"
	"time"

	"github.com/ikkim/messreview-backend/internal/app/model"
)

// Window is a serving period in minutes since midnight, bounds inclusive.
type Window struct {
	Open  int
	Close int
}

func (w Window) Contains(minute int) bool {
	return minute >= w.Open && minute <= w.Close
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s", formatMinute(w.Open), formatMinute(w.Close))
}

type slotTimes struct {
	slot    model.MealSlot
	weekday Window
	weekend Window
}

func hm(h, m int) int { return h*60 + m }

var timetable = []slotTimes{
	{model.MealSlotBreakfast, Window{hm(7, 30), hm(9, 45)}, Window{hm(7, 45), hm(10, 0)}},
	{model.MealSlotLunch, Window{hm(12, 0), hm(14, 15)}, Window{hm(12, 0), hm(14, 15)}},
	{model.MealSlotEveningSnacks, Window{hm(16, 30), hm(18, 15)}, Window{hm(16, 30), hm(18, 30)}},
	{model.MealSlotDinner, Window{hm(19, 30), hm(21, 45)}, Window{hm(19, 30), hm(21, 45)}},
}

// SlotTiming is one row of the displayed timetable.
type SlotTiming struct {
	Slot    model.MealSlot `json:"meal_slot"`
	Name    string         `json:"name"`
	Time    string         `json:"time"`
	Current bool           `json:"current"`
}

// Clock evaluates wall-clock questions in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock in loc; now defaults to time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current serving date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Now().Format(model.DateLayout)
}

// ParseDate validates a YYYY-MM-DD string in the clock's location.
func (c *Clock) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, date, c.loc)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func DayTypeOf(t time.Time) model.DayType {
	if IsWeekend(t) {
		return model.DayTypeWeekend
	}
	return model.DayTypeWeekday
}

// WindowFor returns the serving period of slot on t's day type.
func WindowFor(slot model.MealSlot, dayType model.DayType) (Window, bool) {
	for _, row := range timetable {
		if row.slot != slot {
			continue
		}
		if dayType == model.DayTypeWeekend {
			return row.weekend, true
		}
		return row.weekday, true
	}
	return Window{}, false
}

// CurrentSlot reports the slot open at t, if any. Seconds are ignored.
func CurrentSlot(t time.Time) (model.MealSlot, bool) {
	minute := t.Hour()*60 + t.Minute()
	dayType := DayTypeOf(t)
	for _, row := range timetable {
		w, _ := WindowFor(row.slot, dayType)
		if w.Contains(minute) {
			return row.slot, true
		}
	}
	return "", false
}

// Timetable lists every slot's serving time for t's day type, marking the
// slot open at t.
func Timetable(t time.Time) []SlotTiming {
	dayType := DayTypeOf(t)
	current, open := CurrentSlot(t)

	rows := make([]SlotTiming, 0, len(timetable))
	for _, row := range timetable {
		w, _ := WindowFor(row.slot, dayType)
		rows = append(rows, SlotTiming{
			Slot:    row.slot,
			Name:    row.slot.Label(),
			Time:    w.String(),
			Current: open && current == row.slot,
		})
	}
	return rows
}

func formatMinute(minute int) string {
	h, m := minute/60, minute%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
