package widget

// Package-level constants for widget record assembly.

const (
	// StatusOK marks a fully assembled record.
	StatusOK = "ok"

	// StatusError marks the two-key error record.
	StatusError = "error"

	// MaxHomeworkItems is the number of homework display slots in a record.
	MaxHomeworkItems = 3

	// DefaultRefreshSeconds is the poll hint when nothing on screen is going
	// to change, e.g. outside school hours with no homework due.
	DefaultRefreshSeconds = 300

	// MinRefreshSeconds floors the poll hint so clients sitting right on a
	// boundary do not spin.
	MinRefreshSeconds = 5

	// MaxRefreshSeconds caps the poll hint so a client always re-checks
	// within the hour.
	MaxRefreshSeconds = 3600

	// FallbackSubject is shown when neither the class group nor the lesson
	// names a subject.
	FallbackSubject = "No Lesson"

	// FallbackTeacher is shown when the lesson has no usable teacher.
	FallbackTeacher = "No Teacher"

	// FallbackRoom is shown when the lesson has no room.
	FallbackRoom = "0"
)
