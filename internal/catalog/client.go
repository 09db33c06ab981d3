package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"courseeditor/internal/config"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"github.com/golang/glog"
)

// Fetcher reads the three static JSON endpoints the editor depends on.
type Fetcher interface {
	// FetchCourses returns the full course collection.
	FetchCourses(ctx context.Context) ([]*models.Course, error)
	// FetchTags returns the tag candidates.
	FetchTags(ctx context.Context) ([]string, error)
	// FetchStudents returns the names of the student candidates.
	FetchStudents(ctx context.Context) ([]string, error)
}

// Client is a Fetcher backed by plain HTTP GETs.
type Client struct {
	httpClient  *http.Client
	coursesURL  string
	tagsURL     string
	studentsURL string
}

// NewClient creates a Client from the endpoint URLs and timeout in cfg.
func NewClient(cfg *config.ServerConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.FetchTimeout},
		coursesURL:  cfg.CoursesURL,
		tagsURL:     cfg.TagsURL,
		studentsURL: cfg.StudentsURL,
	}
}

func (c *Client) FetchCourses(ctx context.Context) ([]*models.Course, error) {
	var payload models.CourseCollection
	if err := c.getJSON(ctx, c.coursesURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}

	courses := make([]*models.Course, 0, len(payload.Courses))
	for i, course := range payload.Courses {
		if course == nil {
			glog.Warningf("skipping null course at index %d of %s\n", i, c.coursesURL)
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (c *Client) FetchTags(ctx context.Context) ([]string, error) {
	var payload models.TagCollection
	if err := c.getJSON(ctx, c.tagsURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}

	if payload.Tags == nil {
		payload.Tags = []string{}
	}
	return payload.Tags, nil
}

func (c *Client) FetchStudents(ctx context.Context) ([]string, error) {
	var payload models.StudentCollection
	if err := c.getJSON(ctx, c.studentsURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching students: %w", err)
	}

	names := make([]string, 0, len(payload.EnrolledList))
	for _, s := range payload.EnrolledList {
		names = append(names, s.Name)
	}
	return names, nil
}

// Helpers

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s returned %d after %v", qerrors.UpstreamStatusError, url, resp.StatusCode, time.Since(start))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
