// Package widget assembles the flat dashboard record served to the
// Schoolglance home-screen widget.
//
// Key behaviors:
//   - A single "now" is captured per request and used for every comparison
//     and rendered field, so a record is internally consistent even when
//     the upstream calls straddle a lesson boundary.
//   - All instants are resolved into the service's zone before ordering,
//     so mixed upstream date formats cannot skew selection.
//   - The record's key set is fixed; empty strings stand in for absent
//     lessons and homework.
//
// The service holds no state between requests. Nothing is cached and
// nothing is retried; each poll reflects one fresh pass over the upstream.
package widget

import (
	"context"
	"fmt"
	"time"

	"github.com/hrygo/schoolglance/plugin/satchel"
)

// Upstream sources reported by UpstreamError.
const (
	SourceTimetable = "timetable"
	SourceHomework  = "homework"
)

// UpstreamError reports which upstream fetch failed while building a
// record. The router turns it into the error record and a 502.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Message returns the client-facing form rendered into the error record.
func (e *UpstreamError) Message() string {
	return fmt.Sprintf("Failed to fetch %s: %v", e.Source, e.Err)
}

// Service builds widget records from upstream timetable and homework data.
// It is safe for concurrent use; concurrent calls observe independent nows.
type Service struct {
	fetcher Fetcher
	loc     *time.Location
	now     func() time.Time
}

// NewService creates a widget service rendering in the given zone.
func NewService(fetcher Fetcher, loc *time.Location) *Service {
	return &Service{
		fetcher: fetcher,
		loc:     loc,
		now:     time.Now,
	}
}

// BuildRecord assembles one widget record for the given credentials.
//
// The timetable is fetched first; if that fails the homework call is
// skipped entirely and the upstream error is returned. Homework fetch
// failures surface the same way even when the timetable half succeeded,
// because a record missing its homework keys would wipe the client's
// homework display.
func (s *Service) BuildRecord(ctx context.Context, creds satchel.Credentials) (*Record, error) {
	now := s.now().In(s.loc)

	timetable, err := s.fetcher.FetchTimetable(ctx, creds)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTimetable, Err: err}
	}

	lessons := lessonsOfDay(todaysDay(timetable, now), s.loc)
	current, next, boundaries := selectLessons(now, lessons)

	tasks, err := s.fetcher.FetchHomework(ctx, creds)
	if err != nil {
		return nil, &UpstreamError{Source: SourceHomework, Err: err}
	}

	top, dues := rankHomework(now, parseHomework(tasks, s.loc))
	boundaries = append(boundaries, dues...)

	changeAt, refreshSeconds := nextChange(now, boundaries)
	return assemble(now, current, next, top, changeAt, refreshSeconds), nil
}

// UpcomingHomework returns every homework item due at or after now, soonest
// first, together with the captured now. The feed endpoint serves the full
// list rather than the record's three display slots.
func (s *Service) UpcomingHomework(ctx context.Context, creds satchel.Credentials) ([]Homework, time.Time, error) {
	now := s.now().In(s.loc)

	tasks, err := s.fetcher.FetchHomework(ctx, creds)
	if err != nil {
		return nil, now, &UpstreamError{Source: SourceHomework, Err: err}
	}

	return upcomingHomework(now, parseHomework(tasks, s.loc)), now, nil
}

// Zone reports the civil zone the service renders in.
func (s *Service) Zone() *time.Location {
	return s.loc
}
