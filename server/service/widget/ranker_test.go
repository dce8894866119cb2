package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankHomework(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 30, 0, 0, london)
	due := func(day, hour int) time.Time {
		return time.Date(2024, 3, day, hour, 0, 0, 0, london)
	}
	items := []Homework{
		{Title: "overdue", Due: due(4, 9)},
		{Title: "fourth", Due: due(9, 9)},
		{Title: "first", Due: due(5, 16)},
		{Title: "third", Due: due(7, 9)},
		{Title: "second", Due: due(6, 9)},
	}

	top, dues := rankHomework(now, items)
	require.Len(t, top, MaxHomeworkItems)
	assert.Equal(t, "first", top[0].Title)
	assert.Equal(t, "second", top[1].Title)
	assert.Equal(t, "third", top[2].Title)

	// All four kept dues feed the refresh hint, not just the displayed three.
	assert.Equal(t, []time.Time{due(5, 16), due(6, 9), due(7, 9), due(9, 9)}, dues)
}

func TestRankHomeworkInclusiveAtNow(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 30, 0, 0, london)
	items := []Homework{{Title: "due right now", Due: now}}

	top, dues := rankHomework(now, items)
	require.Len(t, top, 1)
	assert.Equal(t, "due right now", top[0].Title)
	assert.Equal(t, []time.Time{now}, dues)
}

func TestRankHomeworkTieKeepsUpstreamOrder(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 30, 0, 0, london)
	due := time.Date(2024, 3, 6, 23, 59, 59, 0, london)
	items := []Homework{
		{Title: "A", Due: due},
		{Title: "B", Due: due},
	}

	top, _ := rankHomework(now, items)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Title)
	assert.Equal(t, "B", top[1].Title)
}
