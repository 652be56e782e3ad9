package dailymenu

import "time"

// FilterConflicts removes from candidates every day that already has a menu
// scheduled, preserving candidate order and dropping duplicates. The result
// is exactly the set of days a scheduling run may create menus for.
func FilterConflicts(candidates, scheduled []time.Time) []time.Time {
	taken := make(map[string]struct{}, len(scheduled))
	for _, d := range scheduled {
		taken[DayKey(d)] = struct{}{}
	}

	free := make([]time.Time, 0, len(candidates))
	for _, d := range candidates {
		key := DayKey(d)
		if _, clash := taken[key]; clash {
			continue
		}
		taken[key] = struct{}{} // dedupe within candidates too
		free = append(free, NormalizeDay(d))
	}
	return free
}

// Conflicts returns the candidate days that clash with an already scheduled
// menu, for reporting back to the caller.
func Conflicts(candidates, scheduled []time.Time) []time.Time {
	taken := make(map[string]struct{}, len(scheduled))
	for _, d := range scheduled {
		taken[DayKey(d)] = struct{}{}
	}

	clashes := make([]time.Time, 0)
	seen := make(map[string]struct{})
	for _, d := range candidates {
		key := DayKey(d)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, clash := taken[key]; clash {
			clashes = append(clashes, NormalizeDay(d))
		}
	}
	return clashes
}
