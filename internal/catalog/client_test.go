package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"courseeditor/internal/config"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.CoursesURL = srv.URL + "/course.json"
	cfg.TagsURL = srv.URL + "/tags.json"
	cfg.StudentsURL = srv.URL + "/students.json"
	return NewClient(cfg)
}

func upstream() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/course.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"courses":[
			{"courseId":"C1","instructorName":"Alice","courseName":"Intro","tags":["a","b"]},
			{"courseId":"C2","instructorName":"Bea","courseName":"Systems","tags":[],"students":[{"name":"Sam"}]}
		]}`))
	})
	mux.HandleFunc("/tags.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tags":["x","y","z"]}`))
	})
	mux.HandleFunc("/students.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"enrolledList":[{"name":"Kim"},{"name":"Lee"}]}`))
	})
	return mux
}

func TestFetchCourses(t *testing.T) {
	client := newTestClient(t, upstream())

	courses, err := client.FetchCourses(context.Background())
	require.NoError(t, err)

	expected := []*models.Course{
		{CourseID: "C1", InstructorName: "Alice", CourseName: "Intro", Tags: []string{"a", "b"}},
		{CourseID: "C2", InstructorName: "Bea", CourseName: "Systems", Tags: []string{}, Students: []models.Student{{Name: "Sam"}}},
	}
	if diff := cmp.Diff(expected, courses); diff != "" {
		t.Errorf("FetchCourses mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchTagsAndStudents(t *testing.T) {
	client := newTestClient(t, upstream())

	tags, err := client.FetchTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, tags)

	students, err := client.FetchStudents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Kim", "Lee"}, students)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	_, err := client.FetchCourses(context.Background())
	assert.ErrorIs(t, err, qerrors.UpstreamStatusError)

	_, err = client.FetchTags(context.Background())
	assert.ErrorIs(t, err, qerrors.UpstreamStatusError)
}

func TestMalformedPayloadIsAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"enrolledList":`))
	}))

	_, err := client.FetchStudents(context.Background())
	assert.Error(t, err)
}

func TestEmptyPayloadYieldsEmptySlices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	courses, err := client.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	tags, err := client.FetchTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
}

func TestNullCoursesAreSkipped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"courses":[null,{"courseId":"C1","courseName":"Intro","tags":[]},null]}`))
	}))

	courses, err := client.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*models.Course{{CourseID: "C1", CourseName: "Intro", Tags: []string{}}}, courses)
}
