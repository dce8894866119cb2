package satchel

import (
	"encoding/json"
	"strings"
)

// Timetable is the upstream timetable payload. The API returns one or more
// weeks; only the first is current.
type Timetable struct {
	Weeks []Week `json:"weeks"`
}

// Week is a block of consecutive school days.
type Week struct {
	Days []Day `json:"days"`
}

// Day is a single dated timetable entry.
type Day struct {
	Date    string   `json:"date"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is one timetabled session. Subject may live on the lesson itself
// or on its class group, and the teacher field varies by school, so callers
// go through DisplaySubject and Teacher.FullName rather than the raw fields.
type Lesson struct {
	Subject    string     `json:"subject"`
	Room       string     `json:"room"`
	Period     Period     `json:"period"`
	ClassGroup ClassGroup `json:"classGroup"`
	Teacher    Teacher    `json:"teacher"`
}

// Period carries the raw start and end stamps of a lesson. The strings are
// passed through timezone.Normalize before any comparison.
type Period struct {
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

// ClassGroup is the teaching group a lesson belongs to.
type ClassGroup struct {
	Subject string `json:"subject"`
}

// Teacher identifies who takes a lesson.
type Teacher struct {
	Title    string `json:"title"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
}

// UnmarshalJSON tolerates non-object teacher values. Some schools send a
// bare string or null here; either way the lesson itself must still decode.
func (t *Teacher) UnmarshalJSON(data []byte) error {
	type alias Teacher
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*t = Teacher{}
		return nil
	}
	*t = Teacher(a)
	return nil
}

// UnmarshalJSON tolerates non-object class group values for the same reason
// as Teacher.UnmarshalJSON.
func (g *ClassGroup) UnmarshalJSON(data []byte) error {
	type alias ClassGroup
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*g = ClassGroup{}
		return nil
	}
	*g = ClassGroup(a)
	return nil
}

// FullName joins the teacher's title, forename, and surname, skipping
// whichever parts are missing. Returns "" when nothing is set.
func (t Teacher) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Title, t.Forename, t.Surname} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DisplaySubject resolves the lesson's subject, preferring the class group's
// subject over the lesson's own field.
func (l *Lesson) DisplaySubject() string {
	if l.ClassGroup.Subject != "" {
		return l.ClassGroup.Subject
	}
	return l.Subject
}

// TaskList is the upstream homework payload.
type TaskList struct {
	Tasks []Task `json:"personal_calendar_tasks"`
}

// Task is one homework item. Due dates appear under several names depending
// on the task kind; DueRaw resolves the precedence.
type Task struct {
	Title          string `json:"title"`
	ClassTaskTitle string `json:"class_task_title"`
	Subject        string `json:"subject"`
	DueOn          string `json:"due_on"`
	Due            string `json:"due"`
	Date           string `json:"date"`
	DueDate        string `json:"dueDate"`
}

// DueRaw returns the first populated due field, in precedence order.
// Returns "" when the task carries no due date at all.
func (t *Task) DueRaw() string {
	for _, s := range []string{t.DueOn, t.Due, t.Date, t.DueDate} {
		if s != "" {
			return s
		}
	}
	return ""
}

// DisplayTitle prefers the class task title over the personal one.
func (t *Task) DisplayTitle() string {
	if t.ClassTaskTitle != "" {
		return t.ClassTaskTitle
	}
	return t.Title
}
