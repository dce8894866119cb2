package satchel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTimetable(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weeks": [{"days": [{"date": "2024-03-05", "lessons": [{
				"room": "A1",
				"period": {"startDateTime": "2024-03-05T09:00:00Z", "endDateTime": "2024-03-05T10:00:00Z"},
				"classGroup": {"subject": "Maths"},
				"teacher": {"title": "Mr", "forename": "John", "surname": "Smith"}
			}]}]}]
		}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	timetable, err := client.FetchTimetable(context.Background(), Credentials{
		Bearer:   "token123",
		UserID:   "42",
		SchoolID: "7",
	})
	require.NoError(t, err)

	assert.Equal(t, "/timetable/school/7/student/42", gotPath)
	assert.Equal(t, "application/smhw.v2021.5+json", gotAccept)
	assert.Equal(t, "Bearer token123", gotAuth)

	require.Len(t, timetable.Weeks, 1)
	require.Len(t, timetable.Weeks[0].Days, 1)
	day := timetable.Weeks[0].Days[0]
	assert.Equal(t, "2024-03-05", day.Date)
	require.Len(t, day.Lessons, 1)
	assert.Equal(t, "Maths", day.Lessons[0].DisplaySubject())
	assert.Equal(t, "A1", day.Lessons[0].Room)
	assert.Equal(t, "Mr John Smith", day.Lessons[0].Teacher.FullName())
}

func TestFetchHomework(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"personal_calendar_tasks": [
				{"class_task_title": "Algebra worksheet", "subject": "Maths", "due_on": "2024-03-06"},
				{"title": "Read chapter 4", "subject": "English", "due": "2024-03-07T09:00:00Z"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	tasks, err := client.FetchHomework(context.Background(), Credentials{Bearer: "token123"})
	require.NoError(t, err)

	assert.Equal(t, "/personal_calendar_tasks", gotPath)
	require.Len(t, tasks.Tasks, 2)
	assert.Equal(t, "Algebra worksheet", tasks.Tasks[0].DisplayTitle())
	assert.Equal(t, "2024-03-06", tasks.Tasks[0].DueRaw())
	assert.Equal(t, "Read chapter 4", tasks.Tasks[1].DisplayTitle())
	assert.Equal(t, "2024-03-07T09:00:00Z", tasks.Tasks[1].DueRaw())
}

func TestFetchUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := client.FetchTimetable(context.Background(), Credentials{Bearer: "stale"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := client.FetchHomework(context.Background(), Credentials{Bearer: "token123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weeks": []}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := client.FetchTimetable(ctx, Credentials{Bearer: "token123"})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil)
	require.NotNil(t, client)
	assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
}
