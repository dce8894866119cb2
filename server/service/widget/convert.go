package widget

import (
	"time"

	"github.com/hrygo/schoolglance/plugin/satchel"
	"github.com/hrygo/schoolglance/server/timezone"
)

// todaysDay picks today's entry out of the timetable, matching on the
// calendar date in the widget's zone. Only the first week is considered;
// later weeks describe future rotations.
func todaysDay(timetable *satchel.Timetable, now time.Time) *satchel.Day {
	if timetable == nil || len(timetable.Weeks) == 0 {
		return nil
	}

	today := timezone.FormatDate(now)
	days := timetable.Weeks[0].Days
	for i := range days {
		if days[i].Date == today {
			return &days[i]
		}
	}
	return nil
}

// lessonsOfDay converts the day's wire lessons into zoned domain lessons.
// A lesson whose start or end is missing or unparseable is dropped; the
// rest of the day still renders.
func lessonsOfDay(day *satchel.Day, loc *time.Location) []Lesson {
	if day == nil {
		return nil
	}

	lessons := make([]Lesson, 0, len(day.Lessons))
	for i := range day.Lessons {
		wire := &day.Lessons[i]

		start, _, ok := timezone.Normalize(wire.Period.StartDateTime, loc)
		if !ok {
			continue
		}
		end, _, ok := timezone.Normalize(wire.Period.EndDateTime, loc)
		if !ok {
			continue
		}

		subject := wire.DisplaySubject()
		if subject == "" {
			subject = FallbackSubject
		}
		room := wire.Room
		if room == "" {
			room = FallbackRoom
		}
		teacher := wire.Teacher.FullName()
		if teacher == "" {
			teacher = FallbackTeacher
		}

		lessons = append(lessons, Lesson{
			Subject: subject,
			Room:    room,
			Teacher: teacher,
			Start:   start,
			End:     end,
		})
	}
	return lessons
}

// parseHomework converts wire tasks into zoned homework items. Tasks with
// no due field, or one that cannot be parsed, are dropped.
func parseHomework(tasks *satchel.TaskList, loc *time.Location) []Homework {
	if tasks == nil {
		return nil
	}

	items := make([]Homework, 0, len(tasks.Tasks))
	for i := range tasks.Tasks {
		task := &tasks.Tasks[i]

		due, dateOnly, ok := timezone.Normalize(task.DueRaw(), loc)
		if !ok {
			continue
		}

		items = append(items, Homework{
			Title:    task.DisplayTitle(),
			Subject:  task.Subject,
			Due:      due,
			DateOnly: dateOnly,
		})
	}
	return items
}
