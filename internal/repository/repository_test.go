package repository

import (
	"context"
	"path/filepath"
	"testing"

	"courseeditor/internal/config"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourses() []*models.Course {
	return []*models.Course{
		{CourseID: "C2", InstructorName: "Bea", CourseName: "Systems", Tags: []string{"os"}, Students: []models.Student{{Name: "Sam"}}},
		{CourseID: "C1", InstructorName: "Alice", CourseName: "Intro", Tags: []string{"a", "b"}},
	}
}

// testRepository runs the behaviour every backend has to provide.
func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("EmptySnapshot", func(t *testing.T) {
		repo := newRepo(t)

		courses, err := repo.ListCourses(ctx)
		require.NoError(t, err)
		assert.Empty(t, courses)

		_, err = repo.GetCourse(ctx, "C1")
		assert.ErrorIs(t, err, qerrors.CourseNotFoundError)
	})

	t.Run("SaveAndListKeepsOrder", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveCourses(ctx, sampleCourses()))

		courses, err := repo.ListCourses(ctx)
		require.NoError(t, err)
		assert.Equal(t, sampleCourses(), courses)

		c, err := repo.GetCourse(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, sampleCourses()[1], c)
	})

	t.Run("SaveReplacesSnapshot", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveCourses(ctx, sampleCourses()))
		require.NoError(t, repo.SaveCourses(ctx, sampleCourses()[1:]))

		courses, err := repo.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, "C1", courses[0].CourseID)

		_, err = repo.GetCourse(ctx, "C2")
		assert.ErrorIs(t, err, qerrors.CourseNotFoundError)
	})

	t.Run("DuplicateIdentifiersKeepFirstPosition", func(t *testing.T) {
		repo := newRepo(t)
		courses := append(sampleCourses(), &models.Course{CourseID: "C2", CourseName: "Systems II", Tags: []string{}})
		require.NoError(t, repo.SaveCourses(ctx, courses))

		listed, err := repo.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "C2", listed[0].CourseID)
		assert.Equal(t, "Systems II", listed[0].CourseName)
	})

	t.Run("ReturnedCoursesAreCopies", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveCourses(ctx, sampleCourses()))

		c, err := repo.GetCourse(ctx, "C1")
		require.NoError(t, err)
		c.Tags[0] = "mutated"

		again, err := repo.GetCourse(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, again.Tags)
	})

	t.Run("SelectedIsPerSession", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetSelected(ctx, "s1")
		assert.ErrorIs(t, err, qerrors.NoSelectionError)

		first := sampleCourses()[1]
		require.NoError(t, repo.SaveSelected(ctx, "s1", first))

		got, err := repo.GetSelected(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, first, got)

		_, err = repo.GetSelected(ctx, "s2")
		assert.ErrorIs(t, err, qerrors.NoSelectionError)

		edited := first.Clone()
		edited.InstructorName = "Bob"
		require.NoError(t, repo.SaveSelected(ctx, "s1", edited))

		got, err = repo.GetSelected(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.InstructorName)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		return NewMemoryRepository()
	})
}

func TestSQLiteRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "editor.db"))
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		return repo
	})
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "editor.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveCourses(ctx, sampleCourses()))
	require.NoError(t, repo.SaveSelected(ctx, "s1", sampleCourses()[0]))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	courses, err := reopened.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	selected, err := reopened.GetSelected(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "C2", selected.CourseID)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = "postgres"

	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, qerrors.InvalidStoreBackendError)
}

func TestNewDefaultsToMemory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = ""

	repo, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer repo.Close()

	_, ok := repo.(*memoryRepository)
	assert.True(t, ok)
}

func TestDedupeCourses(t *testing.T) {
	courses := []*models.Course{
		{CourseID: "A", CourseName: "first"},
		{CourseID: "B"},
		{CourseID: "A", CourseName: "second"},
	}

	out := dedupeCourses(courses)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].CourseID)
	assert.Equal(t, "second", out[0].CourseName)
	assert.Equal(t, "B", out[1].CourseID)
}
