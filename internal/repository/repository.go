package repository

import (
	"context"
	"fmt"
	"log"

	"courseeditor/internal/config"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"
)

// Repository encapsulates the editor's persisted state: the last fetched catalog and, per editor
// session, the selected course.
type Repository interface {
	// SaveCourses replaces the stored catalog snapshot with courses, keeping their order.
	SaveCourses(ctx context.Context, courses []*models.Course) error
	// ListCourses returns the stored catalog snapshot in the order it was saved.
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourse returns the snapshot entry with the given identifier.
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
	// SaveSelected overwrites the selected course of a session.
	SaveSelected(ctx context.Context, sessionID string, course *models.Course) error
	// GetSelected returns the selected course of a session.
	GetSelected(ctx context.Context, sessionID string) (*models.Course, error)
	// Close releases the underlying resources.
	Close() error
}

// New creates the Repository named by cfg.Store.Backend.
func New(ctx context.Context, cfg *config.ServerConfig) (Repository, error) {
	var (
		repo Repository
		err  error
	)

	switch cfg.Store.Backend {
	case "", config.StoreMemory:
		repo = NewMemoryRepository()
	case config.StoreSQLite:
		repo, err = NewSQLiteRepository(cfg.Store.SQLitePath)
	case config.StoreFirestore:
		repo, err = NewFirestoreRepository(ctx, cfg.Store.FirebaseCredentialsFile)
	default:
		return nil, fmt.Errorf("%w: %q", qerrors.InvalidStoreBackendError, cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Successfully created %s repository", backendName(cfg.Store.Backend))
	return repo, nil
}

func backendName(backend string) string {
	if backend == "" {
		return config.StoreMemory
	}
	return backend
}
