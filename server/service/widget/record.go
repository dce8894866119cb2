package widget

import (
	"time"

	"github.com/hrygo/schoolglance/server/timezone"
)

// Record is the flat widget payload. Every key is always present: the
// rendering client binds each key individually, and an absent key would
// leave stale text on screen. Empty string means "nothing to show" and
// must render as blank.
type Record struct {
	Status string `json:"status"`
	NowHM  string `json:"now_hm"`

	CurrentLessonSubject string `json:"current_lesson_subject"`
	CurrentLessonStartHM string `json:"current_lesson_start_hm"`
	CurrentLessonEndHM   string `json:"current_lesson_end_hm"`
	CurrentLessonRoom    string `json:"current_lesson_room"`
	CurrentLessonTeacher string `json:"current_lesson_teacher"`

	NextLessonSubject string `json:"next_lesson_subject"`
	NextLessonStartHM string `json:"next_lesson_start_hm"`
	NextLessonEndHM   string `json:"next_lesson_end_hm"`
	NextLessonRoom    string `json:"next_lesson_room"`
	NextLessonTeacher string `json:"next_lesson_teacher"`

	HW1Title     string `json:"hw_1_title"`
	HW1Subject   string `json:"hw_1_subject"`
	HW1DueDate   string `json:"hw_1_due_date"`
	HW1DueTimeHM string `json:"hw_1_due_time_hm"`

	HW2Title     string `json:"hw_2_title"`
	HW2Subject   string `json:"hw_2_subject"`
	HW2DueDate   string `json:"hw_2_due_date"`
	HW2DueTimeHM string `json:"hw_2_due_time_hm"`

	HW3Title     string `json:"hw_3_title"`
	HW3Subject   string `json:"hw_3_subject"`
	HW3DueDate   string `json:"hw_3_due_date"`
	HW3DueTimeHM string `json:"hw_3_due_time_hm"`

	HomeworkCount int `json:"homework_count"`

	NextChangeHM   string `json:"next_change_hm"`
	RefreshSeconds int    `json:"refresh_seconds"`
}

// ErrorRecord is the payload returned when an upstream fetch fails. It
// deliberately carries only these two keys: clients keep their last good
// widget values instead of blanking every field.
type ErrorRecord struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorRecord builds an error record with the given client-facing
// message.
func NewErrorRecord(message string) *ErrorRecord {
	return &ErrorRecord{
		Status:  StatusError,
		Message: message,
	}
}

// assemble renders the pipeline results into a record. Lesson and homework
// slots left unfilled stay empty strings, so the key set is identical on
// quiet days and busy ones.
func assemble(now time.Time, current, next *Lesson, top []Homework, changeAt time.Time, refreshSeconds int) *Record {
	rec := &Record{
		Status:         StatusOK,
		NowHM:          timezone.FormatHM(now),
		HomeworkCount:  len(top),
		NextChangeHM:   timezone.FormatHM(changeAt),
		RefreshSeconds: refreshSeconds,
	}

	if current != nil {
		rec.CurrentLessonSubject = current.Subject
		rec.CurrentLessonStartHM = timezone.FormatHM(current.Start)
		rec.CurrentLessonEndHM = timezone.FormatHM(current.End)
		rec.CurrentLessonRoom = current.Room
		rec.CurrentLessonTeacher = current.Teacher
	}

	if next != nil {
		rec.NextLessonSubject = next.Subject
		rec.NextLessonStartHM = timezone.FormatHM(next.Start)
		rec.NextLessonEndHM = timezone.FormatHM(next.End)
		rec.NextLessonRoom = next.Room
		rec.NextLessonTeacher = next.Teacher
	}

	titles := []*string{&rec.HW1Title, &rec.HW2Title, &rec.HW3Title}
	subjects := []*string{&rec.HW1Subject, &rec.HW2Subject, &rec.HW3Subject}
	dueDates := []*string{&rec.HW1DueDate, &rec.HW2DueDate, &rec.HW3DueDate}
	dueTimes := []*string{&rec.HW1DueTimeHM, &rec.HW2DueTimeHM, &rec.HW3DueTimeHM}

	for i, hw := range top {
		if i >= MaxHomeworkItems {
			break
		}
		*titles[i] = hw.Title
		*subjects[i] = hw.Subject
		*dueDates[i] = timezone.FormatDate(hw.Due)
		if !hw.DateOnly {
			// Date-only deadlines keep a blank due time; 23:59 would imply
			// a precision the upstream never gave.
			*dueTimes[i] = timezone.FormatHM(hw.Due)
		}
	}

	return rec
}
