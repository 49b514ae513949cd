// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shift

import "context"

// Repository defines the data access contract for shifts.
type Repository interface {
	// List returns shifts on or after the given date (YYYY-MM-DD), soonest first.
	List(context context.Context, from string) ([]*Shift, error)
	Create(context context.Context, shift *Shift) error
}
