package repository

import (
	"context"
	"sync"

	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"
)

type memoryRepository struct {
	coursesLock *sync.RWMutex
	order       []string
	courses     map[string]*models.Course

	selectedLock *sync.RWMutex
	selected     map[string]*models.Course
}

// NewMemoryRepository creates a Repository that lives only as long as the process.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		coursesLock:  &sync.RWMutex{},
		courses:      make(map[string]*models.Course),
		selectedLock: &sync.RWMutex{},
		selected:     make(map[string]*models.Course),
	}
}

func (r *memoryRepository) SaveCourses(_ context.Context, courses []*models.Course) error {
	r.coursesLock.Lock()
	defer r.coursesLock.Unlock()

	r.order = make([]string, 0, len(courses))
	r.courses = make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		if _, seen := r.courses[c.CourseID]; !seen {
			r.order = append(r.order, c.CourseID)
		}
		r.courses[c.CourseID] = c.Clone()
	}

	return nil
}

func (r *memoryRepository) ListCourses(_ context.Context) ([]*models.Course, error) {
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	courses := make([]*models.Course, 0, len(r.order))
	for _, id := range r.order {
		courses = append(courses, r.courses[id].Clone())
	}
	return courses, nil
}

func (r *memoryRepository) GetCourse(_ context.Context, courseID string) (*models.Course, error) {
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	if val, ok := r.courses[courseID]; ok {
		return val.Clone(), nil
	}
	return nil, qerrors.CourseNotFoundError
}

func (r *memoryRepository) SaveSelected(_ context.Context, sessionID string, course *models.Course) error {
	r.selectedLock.Lock()
	defer r.selectedLock.Unlock()

	r.selected[sessionID] = course.Clone()
	return nil
}

func (r *memoryRepository) GetSelected(_ context.Context, sessionID string) (*models.Course, error) {
	r.selectedLock.RLock()
	defer r.selectedLock.RUnlock()

	if val, ok := r.selected[sessionID]; ok {
		return val.Clone(), nil
	}
	return nil, qerrors.NoSelectionError
}

func (r *memoryRepository) Close() error {
	return nil
}
