// Package devapi serves the portfolio REST API from a local sqlite file so
// the dashboard and client can run without the production backend.
package devapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noor-latif/portfolio-admin/internal/db"
	"github.com/noor-latif/portfolio-admin/internal/models"
)

// Store defines the persistence the API needs (enables mocking)
type Store interface {
	ListLanguages(ctx context.Context) ([]models.Language, error)
	LanguageByCode(ctx context.Context, code string) (*models.Language, error)
	ListProjects(ctx context.Context, languageID int64, featuredOnly bool) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectCreate) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, in models.ProjectUpdate) (*models.Project, error)
	ToggleFeatured(ctx context.Context, id int64) (*models.Project, error)
	ReorderProjects(ctx context.Context, languageID int64, projectIDs []int64) ([]models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

var _ Store = (*db.DB)(nil)

// Handler holds dependencies
type Handler struct {
	DB      Store
	started time.Time
	logger  *log.Logger
}

// New creates a new Handler
func New(store Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{DB: store, started: time.Now(), logger: logger}
}

// Router mounts the API under /api.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/languages", h.ListLanguages)

		r.Get("/projects", h.ListProjects)
		r.Post("/projects", h.CreateProject)
		r.Get("/projects/featured", h.ListFeatured)
		r.Get("/projects/by-language/{code}", h.ByLanguage)
		r.Patch("/projects/reorder/{languageId}", h.Reorder)
		r.Get("/projects/{id}", h.GetProject)
		r.Patch("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)
		r.Patch("/projects/{id}/toggle-featured", h.ToggleFeatured)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	return r
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.Health{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Uptime:    time.Since(h.started).Seconds(),
	})
}

// ListLanguages handles GET /api/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.DB.ListLanguages(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, langs)
}

// ListProjects handles GET /api/projects?languageId=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListFeatured handles GET /api/projects/featured?languageId=
func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, featuredOnly bool) {
	var languageID int64
	if raw := r.URL.Query().Get("languageId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "languageId must be a number")
			return
		}
		languageID = id
	}

	projects, err := h.DB.ListProjects(r.Context(), languageID, featuredOnly)
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// ByLanguage handles GET /api/projects/by-language/{code}
func (h *Handler) ByLanguage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	lang, err := h.DB.LanguageByCode(r.Context(), code)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Language with code "+code+" not found")
		return
	}
	if err != nil {
		h.storeError(w, err)
		return
	}

	projects, err := h.DB.ListProjects(r.Context(), lang.ID, true)
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.ProjectsResponse{FeaturedProjects: projects})
}

// GetProject handles GET /api/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.DB.GetProject(r.Context(), id)
	if err != nil {
		h.projectError(w, id, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreateProject handles POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectCreate
	if !decode(w, r, &in) {
		return
	}
	if msgs := validateCreate(in); len(msgs) > 0 {
		respondValidation(w, msgs)
		return
	}

	p, err := h.DB.CreateProject(r.Context(), in)
	if errors.Is(err, db.ErrUnknownLanguage) {
		respondError(w, http.StatusBadRequest, "Language with ID "+strconv.FormatInt(in.LanguageID, 10)+" not found")
		return
	}
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.logger.Printf("[DEVAPI] Created project %d (%s)", p.ID, p.Title)
	respondJSON(w, http.StatusCreated, p)
}

// UpdateProject handles PATCH /api/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var in models.ProjectUpdate
	if !decode(w, r, &in) {
		return
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		respondValidation(w, []string{"title should not be empty"})
		return
	}

	p, err := h.DB.UpdateProject(r.Context(), id, in)
	if errors.Is(err, db.ErrUnknownLanguage) {
		respondError(w, http.StatusBadRequest, "Language not found")
		return
	}
	if err != nil {
		h.projectError(w, id, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.DB.DeleteProject(r.Context(), id); err != nil {
		h.projectError(w, id, err)
		return
	}
	h.logger.Printf("[DEVAPI] Deleted project %d", id)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFeatured handles PATCH /api/projects/{id}/toggle-featured
func (h *Handler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.DB.ToggleFeatured(r.Context(), id)
	if err != nil {
		h.projectError(w, id, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Reorder handles PATCH /api/projects/reorder/{languageId}
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	languageID, ok := idParam(w, r, "languageId")
	if !ok {
		return
	}
	var in struct {
		ProjectIDs *[]int64 `json:"projectIds"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.ProjectIDs == nil {
		respondValidation(w, []string{"projectIds must be an array"})
		return
	}

	projects, err := h.DB.ReorderProjects(r.Context(), languageID, *in.ProjectIDs)
	switch {
	case errors.Is(err, db.ErrUnknownLanguage):
		respondError(w, http.StatusNotFound, "Language with ID "+strconv.FormatInt(languageID, 10)+" not found")
	case errors.Is(err, db.ErrForeignProject), errors.Is(err, db.ErrNotFound):
		respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.storeError(w, err)
	default:
		respondJSON(w, http.StatusOK, projects)
	}
}

func validateCreate(in models.ProjectCreate) []string {
	var msgs []string
	if in.LanguageID <= 0 {
		msgs = append(msgs, "languageId must be a positive number")
	}
	if strings.TrimSpace(in.Title) == "" {
		msgs = append(msgs, "title should not be empty")
	}
	return msgs
}

func (h *Handler) projectError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	h.storeError(w, err)
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	h.logger.Printf("[DEVAPI] Store error: %v", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
