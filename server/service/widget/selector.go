package widget

import (
	"sort"
	"time"
)

// selectLessons picks the current and next lesson relative to now and
// collects every future lesson boundary for the refresh hint.
//
// Lessons are ordered by start, ties keeping their upstream order. A lesson
// is current when now falls within [start, end] inclusive on both ends, so
// a poll landing exactly on a boundary still shows the finishing lesson.
// The next lesson is the first one starting strictly after now; overlapping
// timetables therefore resolve to the earliest matching lesson of each
// kind.
func selectLessons(now time.Time, lessons []Lesson) (current, next *Lesson, boundaries []time.Time) {
	ordered := make([]Lesson, len(lessons))
	copy(ordered, lessons)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	for i := range ordered {
		lesson := &ordered[i]
		if current == nil && !now.Before(lesson.Start) && !now.After(lesson.End) {
			current = lesson
		}
		if next == nil && lesson.Start.After(now) {
			next = lesson
		}
		if lesson.Start.After(now) {
			boundaries = append(boundaries, lesson.Start)
		}
		if lesson.End.After(now) {
			boundaries = append(boundaries, lesson.End)
		}
	}
	return current, next, boundaries
}
