// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package shift publishes volunteer shifts. Anyone may read them; creating
// one requires access.CanScheduleShifts.
package shift

// Shift is one volunteer slot block on a given day.
type Shift struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"`
	Slots       int    `json:"slots"`
	Description string `json:"description"`
}

const (
	FieldTitle = "title"
	FieldDate  = "date"
	FieldTime  = "time"
	FieldSlots = "slots"
)
