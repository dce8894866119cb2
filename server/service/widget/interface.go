package widget

import (
	"context"
	"time"

	"github.com/hrygo/schoolglance/plugin/satchel"
)

// Fetcher is the interface for upstream operations needed by the widget
// service. The Satchel client satisfies it; tests substitute a mock.
type Fetcher interface {
	FetchTimetable(ctx context.Context, creds satchel.Credentials) (*satchel.Timetable, error)
	FetchHomework(ctx context.Context, creds satchel.Credentials) (*satchel.TaskList, error)
}

// Lesson is one timetabled session with both endpoints resolved into the
// widget's zone. Display fields are already defaulted, so renderers never
// see an empty subject, room, or teacher.
type Lesson struct {
	Subject string
	Room    string
	Teacher string
	Start   time.Time
	End     time.Time
}

// Homework is a task with its due instant resolved into the widget's zone.
// DateOnly records that the upstream value was a bare calendar date, in
// which case the due time is not rendered.
type Homework struct {
	Title    string
	Subject  string
	Due      time.Time
	DateOnly bool
}
