package store

import "time"

// IsOrderable decides whether the store accepts orders at the given instant.
// A store with no schedule entries is open around the clock. Otherwise the
// store is open if yesterday's entry spills past midnight into now, or
// today's entry covers now. A weekday with no entry is closed.
func (s *Store) IsOrderable(now time.Time) bool {
	if s.Status != StatusOpen {
		return false
	}
	if len(s.Operations) == 0 {
		return true
	}

	today := now.Weekday()
	yesterday := (today + 6) % 7

	for i := range s.Operations {
		op := &s.Operations[i]
		if op.DayOfWeek == yesterday && op.inBusinessRange(now, true) {
			return true
		}
		if op.DayOfWeek == today && op.inBusinessRange(now, false) {
			return true
		}
	}

	return false
}

// inBusinessRange tests one schedule entry against now. fromYesterday shifts
// the base date back a day to evaluate overnight continuation. An entry
// without hours covers its whole weekday, so it can never continue from
// yesterday.
func (op *Operation) inBusinessRange(now time.Time, fromYesterday bool) bool {
	if op.StartHour == nil || op.EndHour == nil {
		return !fromYesterday
	}

	base := now
	if fromYesterday {
		base = now.AddDate(0, 0, -1)
	}

	businessStart := op.StartHour.on(base)
	businessEnd := op.EndHour.on(base)

	// end before start means the window wraps past midnight, e.g. 22:00-02:00
	if businessEnd.Before(businessStart) {
		businessEnd = businessEnd.AddDate(0, 0, 1)
	}

	if now.Before(businessStart) || now.After(businessEnd) {
		return false
	}

	return !op.inBreak(now, base, businessStart)
}

func (op *Operation) inBreak(now, base, businessStart time.Time) bool {
	return op.BreakHour1.contains(now, base, businessStart) ||
		op.BreakHour2.contains(now, base, businessStart)
}

// contains tests start <= now < end. Break windows may wrap midnight
// themselves, and a break lying entirely before opening belongs to the
// overnight portion of a wrapped business window, so it shifts forward a day.
func (b *BreakTime) contains(now, base, businessStart time.Time) bool {
	if b == nil {
		return false
	}

	start := b.Start.on(base)
	end := b.End.on(base)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(businessStart) {
		start = start.AddDate(0, 0, 1)
		end = end.AddDate(0, 0, 1)
	}

	return !now.Before(start) && now.Before(end)
}
