package widget

import (
	"sort"
	"time"
)

// upcomingHomework keeps items due at or after now, ordered soonest first
// with upstream order breaking ties. Overdue homework is hidden rather
// than pinned to the top of the list.
func upcomingHomework(now time.Time, items []Homework) []Homework {
	kept := make([]Homework, 0, len(items))
	for _, item := range items {
		if item.Due.Before(now) {
			continue
		}
		kept = append(kept, item)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Due.Before(kept[j].Due)
	})
	return kept
}

// rankHomework returns at most MaxHomeworkItems upcoming items for display,
// plus the due instant of every kept item. All kept dues feed the refresh
// hint, including those beyond the display slots.
func rankHomework(now time.Time, items []Homework) (top []Homework, dues []time.Time) {
	kept := upcomingHomework(now, items)

	dues = make([]time.Time, 0, len(kept))
	for _, item := range kept {
		dues = append(dues, item.Due)
	}

	if len(kept) > MaxHomeworkItems {
		kept = kept[:MaxHomeworkItems]
	}
	return kept, dues
}
