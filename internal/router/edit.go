package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"courseeditor/internal/editor"
	"courseeditor/internal/middleware"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

type editHandlers struct {
	svc *editor.Service
}

func EditRoutes(svc *editor.Service) *chi.Mux {
	router := chi.NewRouter()
	h := &editHandlers{svc}

	router.Route("/{courseID}", func(r chi.Router) {
		// Sets "courseID" from URL param in the context
		r.Use(middleware.CourseCtx())

		// Read the draft / edit its fields
		r.Get("/", h.getDraftHandler)
		r.Patch("/", h.editDraftHandler)

		// Chip removal
		r.Delete("/tags/{tag}", h.removeTagHandler)
		r.Delete("/students/{name}", h.removeStudentHandler)

		// Candidate fetches
		r.Post("/tags/fetch", h.fetchTagsHandler)
		r.Post("/students/fetch", h.fetchStudentsHandler)
		r.Post("/candidates/fetch", h.fetchCandidatesHandler)

		// Leaving the edit view
		r.Post("/submit", h.submitHandler)
		r.Post("/cancel", h.cancelHandler)
	})

	return router
}

// GET: /{courseID}
func (h *editHandlers) getDraftHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Draft(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	h.renderDraft(w, r, view, err)
}

// PATCH: /{courseID}
func (h *editHandlers) editDraftHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.EditCourseRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req == nil {
		req = &models.EditCourseRequest{}
	}
	req.CourseID = middleware.GetCourseID(r)

	view, err := h.svc.EditFields(r.Context(), middleware.GetSessionID(r), req)
	h.renderDraft(w, r, view, err)
}

// DELETE: /{courseID}/tags/{tag}
func (h *editHandlers) removeTagHandler(w http.ResponseWriter, r *http.Request) {
	tag := middleware.URLParam(r, "tag")

	view, err := h.svc.RemoveTag(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r), tag)
	h.renderDraft(w, r, view, err)
}

// DELETE: /{courseID}/students/{name}
func (h *editHandlers) removeStudentHandler(w http.ResponseWriter, r *http.Request) {
	name := middleware.URLParam(r, "name")

	view, err := h.svc.RemoveStudent(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r), name)
	h.renderDraft(w, r, view, err)
}

// POST: /{courseID}/tags/fetch
func (h *editHandlers) fetchTagsHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.FetchTagCandidates(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	h.renderDraft(w, r, view, err)
}

// POST: /{courseID}/students/fetch
func (h *editHandlers) fetchStudentsHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.FetchStudentCandidates(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	h.renderDraft(w, r, view, err)
}

// POST: /{courseID}/candidates/fetch
func (h *editHandlers) fetchCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.FetchCandidates(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	h.renderDraft(w, r, view, err)
}

// POST: /{courseID}/submit
//
// Persists the merged draft as the selected course and returns to the catalog.
func (h *editHandlers) submitHandler(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.Submit(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	if redirectWithoutSelection(w, r, err) {
		return
	}
	if err != nil {
		glog.Warningln(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", CatalogPath)
	render.Status(r, http.StatusSeeOther)
	render.JSON(w, r, course)
}

// POST: /{courseID}/cancel
//
// Discards the draft and returns to the catalog.
func (h *editHandlers) cancelHandler(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Cancel(r.Context(), middleware.GetSessionID(r), middleware.GetCourseID(r))
	if redirectWithoutSelection(w, r, err) {
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, CatalogPath, http.StatusSeeOther)
}

// Helpers

func (h *editHandlers) renderDraft(w http.ResponseWriter, r *http.Request, view *editor.DraftView, err error) {
	if redirectWithoutSelection(w, r, err) {
		return
	}
	if err != nil {
		glog.Warningln(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, view)
}

// redirectWithoutSelection sends the client back to the catalog when the session has nothing to
// edit for the requested course.
func redirectWithoutSelection(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, qerrors.NoSelectionError) || errors.Is(err, qerrors.SelectionMismatchError) {
		http.Redirect(w, r, CatalogPath, http.StatusSeeOther)
		return true
	}
	return false
}
