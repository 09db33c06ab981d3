package editor

import (
	"context"
	"errors"
	"fmt"

	"courseeditor/internal/catalog"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"
	"courseeditor/internal/repository"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Service implements the catalog and edit flows on top of the remote endpoints, the repository
// and the open drafts.
type Service struct {
	fetcher  catalog.Fetcher
	repo     repository.Repository
	sessions *Sessions
}

func NewService(fetcher catalog.Fetcher, repo repository.Repository) *Service {
	return &Service{
		fetcher:  fetcher,
		repo:     repo,
		sessions: NewSessions(),
	}
}

// Catalog

// ListCourses fetches the course collection and stores it as the catalog snapshot. A failed fetch
// is logged and yields an empty catalog.
func (s *Service) ListCourses(ctx context.Context) []*models.Course {
	courses, err := s.fetcher.FetchCourses(ctx)
	if err != nil {
		glog.Warningf("error fetching courses: %v\n", err)
		return []*models.Course{}
	}

	if err := s.repo.SaveCourses(ctx, courses); err != nil {
		glog.Warningf("error saving course snapshot: %v\n", err)
	}
	return courses
}

// GetCourse returns a course from the catalog snapshot, fetching the catalog if none is stored.
func (s *Service) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if !errors.Is(err, qerrors.CourseNotFoundError) {
		return course, err
	}

	// Nothing stored yet, e.g. a selection made straight after a restart.
	snapshot, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		return nil, qerrors.CourseNotFoundError
	}
	s.ListCourses(ctx)
	return s.repo.GetCourse(ctx, courseID)
}

// SelectCourse stores the course with the given identifier as the session's selected course and
// opens a fresh draft over it, replacing any draft the session had.
func (s *Service) SelectCourse(ctx context.Context, sessionID, courseID string) (*models.Course, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSelected(ctx, sessionID, course); err != nil {
		return nil, fmt.Errorf("storing selected course: %w", err)
	}
	s.sessions.Open(sessionID, NewDraft(course))

	return course, nil
}

// Selected returns the session's persisted selected course.
func (s *Service) Selected(ctx context.Context, sessionID string) (*models.Course, error) {
	return s.repo.GetSelected(ctx, sessionID)
}

// Edit

// Draft returns the session's draft for courseID. When no draft is open, one is opened from the
// persisted selected course if that course is courseID.
func (s *Service) Draft(ctx context.Context, sessionID, courseID string) (*DraftView, error) {
	return s.update(ctx, sessionID, courseID, func(d *Draft) {})
}

// EditFields applies instructor/course name edits to the draft.
func (s *Service) EditFields(ctx context.Context, sessionID string, req *models.EditCourseRequest) (*DraftView, error) {
	return s.update(ctx, sessionID, req.CourseID, func(d *Draft) {
		d.Apply(req)
	})
}

// RemoveTag removes a tag chip from the draft. Removing an absent tag is a no-op.
func (s *Service) RemoveTag(ctx context.Context, sessionID, courseID, tag string) (*DraftView, error) {
	return s.update(ctx, sessionID, courseID, func(d *Draft) {
		d.RemoveTag(tag)
	})
}

// RemoveStudent removes a student chip from the draft. Removing an absent student is a no-op.
func (s *Service) RemoveStudent(ctx context.Context, sessionID, courseID, name string) (*DraftView, error) {
	return s.update(ctx, sessionID, courseID, func(d *Draft) {
		d.RemoveStudent(name)
	})
}

// FetchTagCandidates loads the tag candidates into the draft. A failed fetch is logged and leaves
// the draft as it was.
func (s *Service) FetchTagCandidates(ctx context.Context, sessionID, courseID string) (*DraftView, error) {
	if _, err := s.Draft(ctx, sessionID, courseID); err != nil {
		return nil, err
	}

	tags, err := s.fetcher.FetchTags(ctx)
	if err != nil {
		glog.Warningf("error fetching tags: %v\n", err)
		return s.Draft(ctx, sessionID, courseID)
	}
	return s.update(ctx, sessionID, courseID, func(d *Draft) {
		d.SetTagCandidates(tags)
	})
}

// FetchStudentCandidates loads the student candidates into the draft. A failed fetch is logged
// and leaves the draft as it was.
func (s *Service) FetchStudentCandidates(ctx context.Context, sessionID, courseID string) (*DraftView, error) {
	if _, err := s.Draft(ctx, sessionID, courseID); err != nil {
		return nil, err
	}

	names, err := s.fetcher.FetchStudents(ctx)
	if err != nil {
		glog.Warningf("error fetching students: %v\n", err)
		return s.Draft(ctx, sessionID, courseID)
	}
	return s.update(ctx, sessionID, courseID, func(d *Draft) {
		d.SetStudentCandidates(names)
	})
}

// FetchCandidates loads tag and student candidates concurrently. Each fetch that fails is logged
// and leaves its candidate set untouched.
func (s *Service) FetchCandidates(ctx context.Context, sessionID, courseID string) (*DraftView, error) {
	if _, err := s.Draft(ctx, sessionID, courseID); err != nil {
		return nil, err
	}

	var (
		tags, names       []string
		tagsErr, namesErr error
	)
	wg := errgroup.Group{}
	wg.Go(func() error {
		tags, tagsErr = s.fetcher.FetchTags(ctx)
		return nil
	})
	wg.Go(func() error {
		names, namesErr = s.fetcher.FetchStudents(ctx)
		return nil
	})
	_ = wg.Wait()

	if tagsErr != nil {
		glog.Warningf("error fetching tags: %v\n", tagsErr)
	}
	if namesErr != nil {
		glog.Warningf("error fetching students: %v\n", namesErr)
	}

	return s.update(ctx, sessionID, courseID, func(d *Draft) {
		if tagsErr == nil {
			d.SetTagCandidates(tags)
		}
		if namesErr == nil {
			d.SetStudentCandidates(names)
		}
	})
}

// Submit merges the draft, stores the result as the session's selected course and closes the
// draft.
func (s *Service) Submit(ctx context.Context, sessionID, courseID string) (*models.Course, error) {
	var merged *models.Course
	if _, err := s.update(ctx, sessionID, courseID, func(d *Draft) {
		merged = d.Merge()
	}); err != nil {
		return nil, err
	}

	if err := s.repo.SaveSelected(ctx, sessionID, merged); err != nil {
		return nil, fmt.Errorf("storing selected course: %w", err)
	}

	if _, err := s.sessions.Close(sessionID, courseID); err != nil {
		glog.Warningf("draft for %s closed during submit: %v\n", courseID, err)
	}
	return merged, nil
}

// Cancel discards the draft. The persisted selected course is left alone.
func (s *Service) Cancel(ctx context.Context, sessionID, courseID string) error {
	_, err := s.sessions.Close(sessionID, courseID)
	if errors.Is(err, qerrors.NoSelectionError) {
		// Nothing is open; still confirm there was a selection to cancel.
		_, err = s.mount(ctx, sessionID, courseID)
		if err == nil {
			_, err = s.sessions.Close(sessionID, courseID)
		}
	}
	return err
}

// Helpers

func (s *Service) update(ctx context.Context, sessionID, courseID string, fn func(d *Draft)) (*DraftView, error) {
	var view *DraftView
	apply := func(d *Draft) error {
		fn(d)
		view = d.View()
		return nil
	}

	err := s.sessions.Update(sessionID, courseID, apply)
	if errors.Is(err, qerrors.NoSelectionError) {
		if _, err = s.mount(ctx, sessionID, courseID); err == nil {
			err = s.sessions.Update(sessionID, courseID, apply)
		}
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// mount opens a draft from the persisted selected course, the way the edit view does when it is
// entered without an open draft.
func (s *Service) mount(ctx context.Context, sessionID, courseID string) (*Draft, error) {
	selected, err := s.repo.GetSelected(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if selected.CourseID != courseID {
		return nil, qerrors.SelectionMismatchError
	}

	d := NewDraft(selected)
	s.sessions.OpenIfAbsent(sessionID, d)
	return d, nil
}
