package services

import (
	"fmt"
	"time"
)

const (
	slotStep      = 45 * time.Minute
	firstSlot     = 9 * time.Hour
	lastSlot      = 20*time.Hour + 15*time.Minute
	lunchStart    = 12 * time.Hour
	lunchEnd      = 15 * time.Hour
	slotLayout    = "15:04"
	requestLayout = "2006-01-02"
)

var slotGrid = buildSlotGrid()

func buildSlotGrid() []string {
	var slots []string
	for offset := firstSlot; offset <= lastSlot; offset += slotStep {
		if offset >= lunchStart && offset < lunchEnd {
			continue
		}
		h := int(offset / time.Hour)
		m := int((offset % time.Hour) / time.Minute)
		slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
	}
	return slots
}

// SlotGrid returns every bookable time of day.
func SlotGrid() []string {
	out := make([]string, len(slotGrid))
	copy(out, slotGrid)
	return out
}

func isGridSlot(slot string) bool {
	for _, s := range slotGrid {
		if s == slot {
			return true
		}
	}
	return false
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(requestLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

// IsOpenDate reports whether date can still be booked: not a Sunday and not
// in the past.
func IsOpenDate(date, now time.Time) bool {
	if date.Weekday() == time.Sunday {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return !date.Before(today)
}

// slotStart is the instant a slot begins on date.
func slotStart(date time.Time, slot string) (time.Time, error) {
	t, err := time.Parse(slotLayout, slot)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// openSlots removes taken and already started slots from the grid.
func openSlots(date, now time.Time, taken []string) []string {
	held := make(map[string]bool, len(taken))
	for _, t := range taken {
		held[t] = true
	}
	slots := []string{}
	for _, slot := range slotGrid {
		if held[slot] {
			continue
		}
		start, err := slotStart(date, slot)
		if err != nil || !start.After(now) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}
