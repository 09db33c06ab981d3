package router

import (
	"errors"
	"net/http"
	"net/url"

	"courseeditor/internal/editor"
	"courseeditor/internal/middleware"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

const CatalogPath = "/v1/courses"

// EditPath is the edit route of a course.
func EditPath(courseID string) string {
	return "/v1/edit/" + url.PathEscape(courseID)
}

type courseHandlers struct {
	svc *editor.Service
}

func CourseRoutes(svc *editor.Service) *chi.Mux {
	router := chi.NewRouter()
	h := &courseHandlers{svc}

	// The catalog
	router.Get("/", h.listCoursesHandler)

	router.Route("/{courseID}", func(r chi.Router) {
		r.Use(middleware.CourseCtx())

		// Get a course from the catalog snapshot
		r.Get("/", h.getCourseHandler)

		// Select a course for editing
		r.Post("/select", h.selectCourseHandler)
	})

	return router
}

func SelectedRoutes(svc *editor.Service) *chi.Mux {
	router := chi.NewRouter()
	h := &courseHandlers{svc}

	router.Get("/", h.getSelectedHandler)

	return router
}

// GET: /
//
// Fetches the course collection and renders one card per course. A failed fetch renders an empty
// catalog.
func (h *courseHandlers) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses := h.svc.ListCourses(r.Context())

	cards := make([]models.CourseCard, 0, len(courses))
	for _, c := range courses {
		cards = append(cards, c.Card())
	}

	render.JSON(w, r, &models.CatalogResponse{Cards: cards, Courses: courses})
}

// GET: /{courseID}
func (h *courseHandlers) getCourseHandler(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.GetCourse(r.Context(), middleware.GetCourseID(r))
	if errors.Is(err, qerrors.CourseNotFoundError) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, course)
}

// POST: /{courseID}/select
//
// Stores the course as the session's selected course and sends the client on to its edit route.
func (h *courseHandlers) selectCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := middleware.GetCourseID(r)

	course, err := h.svc.SelectCourse(r.Context(), middleware.GetSessionID(r), courseID)
	if errors.Is(err, qerrors.CourseNotFoundError) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		glog.Warningln(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	location := EditPath(courseID)
	w.Header().Set("Location", location)
	render.Status(r, http.StatusSeeOther)
	render.JSON(w, r, &models.SelectCourseResponse{Course: course, Location: location})
}

// GET: /
//
// Returns the session's persisted selected course.
func (h *courseHandlers) getSelectedHandler(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.Selected(r.Context(), middleware.GetSessionID(r))
	if errors.Is(err, qerrors.NoSelectionError) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, course)
}
