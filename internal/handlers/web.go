// handlers/web.go - Dashboard HTTP handlers
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/noor-latif/portfolio-admin/internal/api"
	"github.com/noor-latif/portfolio-admin/internal/models"
	"github.com/noor-latif/portfolio-admin/internal/store"
	"github.com/noor-latif/portfolio-admin/internal/templates"
)

// Store defines the project store operations the dashboard drives (enables mocking)
type Store interface {
	Snapshot() store.State
	FetchProjects(ctx context.Context, languageID *int64)
	FindProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, data models.ProjectCreate) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, data models.ProjectUpdate) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	ToggleProjectFeatured(ctx context.Context, id int64) (*models.Project, error)
	ReorderProjects(ctx context.Context, languageID int64, projectIDs []int64) error
	ClearError()
}

// HealthChecker reports on the upstream API
type HealthChecker interface {
	Health(ctx context.Context) (*models.Health, error)
}

var (
	_ Store         = (*store.ProjectStore)(nil)
	_ HealthChecker = (*api.Client)(nil)
)

// Handler holds dependencies
type Handler struct {
	Store    Store
	Upstream HealthChecker
	logger   *log.Logger
}

// New creates a new Handler
func New(s Store, upstream HealthChecker, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{Store: s, Upstream: upstream, logger: logger}
}

// Routes registers the dashboard routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/cv", h.Placeholder("CV", "The CV editor is not available yet."))
	r.Get("/skills", h.Placeholder("Skills", "The skills editor is not available yet."))
	r.Get("/settings", h.Placeholder("Settings", "Settings are not available yet."))

	r.Get("/projects", h.ProjectList)
	r.Get("/projects/create", h.ProjectForm)
	r.Get("/projects/{id}/edit", h.ProjectForm)
	r.Post("/projects", h.CreateProject)
	r.Post("/projects/{id}", h.UpdateProject)
	r.Post("/projects/{id}/delete", h.DeleteProject)
	r.Post("/projects/{id}/toggle-featured", h.ToggleFeatured)
	r.Post("/projects/reorder/{languageId}", h.ReorderProjects)
	r.Post("/errors/clear", h.ClearError)

	r.Get("/health", h.Health)
}

// isFragment reports whether r swaps part of the page. Boosted links and
// forms also send HX-Request but replace the whole body, so they get the
// full layout.
func isFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}

// render writes the fragment for partial HTMX requests and the full page
// otherwise. Error statuses are still swapped in; see the htmx-config meta in
// the layout.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, fragment templ.Component) {
	page := fragment
	if !isFragment(r) {
		page = templates.Layout(title+" | Portfolio Admin", fragment)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Printf("[WEB] Error rendering %s: %v", r.URL.Path, err)
	}
}

// statusFor maps a store failure onto the dashboard's response code
func statusFor(err error) int {
	if errors.Is(err, api.ErrNotFound) {
		return http.StatusNotFound
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// Dashboard renders counts and featured projects
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Store.FetchProjects(r.Context(), nil)
	st := h.Store.Snapshot()

	status := http.StatusOK
	if st.Error != "" && isFragment(r) {
		status = http.StatusBadGateway
	}
	h.render(w, r, status, "Dashboard", templates.Dashboard(templates.DashboardData{
		Projects: st.Projects,
		Featured: st.FeaturedProjects(),
		Loading:  st.Loading,
		Error:    st.Error,
	}))
}

// ProjectList refetches and renders the grouped project list
func (h *Handler) ProjectList(w http.ResponseWriter, r *http.Request) {
	var languageID *int64
	if raw := r.URL.Query().Get("languageId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid languageId", http.StatusBadRequest)
			return
		}
		if id != 0 {
			languageID = &id
		}
	}

	h.Store.FetchProjects(r.Context(), languageID)
	status := http.StatusOK
	if h.Store.Snapshot().Error != "" && isFragment(r) {
		status = http.StatusBadGateway
	}
	h.renderList(w, r, status, languageID)
}

// renderList renders the cached projects without refetching
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, languageID *int64) {
	st := h.Store.Snapshot()
	h.render(w, r, status, "Projects", templates.ProjectList(templates.ProjectListData{
		Groups:             templates.GroupByLanguage(st.Projects),
		SelectedLanguageID: languageID,
		Error:              st.Error,
	}))
}

// afterMutation redirects to the list on success. Failures render the list in
// place so the store's error is shown before the next fetch clears it.
func (h *Handler) afterMutation(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.renderList(w, r, statusFor(err), nil)
		return
	}
	if isFragment(r) {
		h.renderList(w, r, http.StatusOK, nil)
		return
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

// ProjectForm renders the create form, or the edit form when {id} is set
func (h *Handler) ProjectForm(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		h.render(w, r, http.StatusOK, "New project", templates.ProjectForm(templates.ProjectFormData{
			Project: models.Project{LanguageID: 1, ShowDemo: true, ShowCode: true},
		}))
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	p, err := h.Store.FindProject(r.Context(), id)
	if err != nil {
		h.logger.Printf("[WEB] Error loading project %d: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	h.render(w, r, http.StatusOK, "Edit project", templates.ProjectForm(templates.ProjectFormData{Project: *p, IsEdit: true}))
}

// CreateProject handles new project creation
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	form, err := parseProjectForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Store.CreateProject(r.Context(), form.toCreate()); err != nil {
		h.render(w, r, statusFor(err), "New project", templates.ProjectForm(templates.ProjectFormData{
			Project: form.project(0),
			Error:   h.Store.Snapshot().Error,
		}))
		return
	}
	h.afterMutation(w, r, nil)
}

// UpdateProject handles project updates
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	form, err := parseProjectForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Store.UpdateProject(r.Context(), id, form.toUpdate()); err != nil {
		h.render(w, r, statusFor(err), "Edit project", templates.ProjectForm(templates.ProjectFormData{
			Project: form.project(id),
			IsEdit:  true,
			Error:   h.Store.Snapshot().Error,
		}))
		return
	}
	h.afterMutation(w, r, nil)
}

// DeleteProject handles project deletion
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	h.afterMutation(w, r, h.Store.DeleteProject(r.Context(), id))
}

// ToggleFeatured flips a project's featured flag
func (h *Handler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	_, err := h.Store.ToggleProjectFeatured(r.Context(), id)
	h.afterMutation(w, r, err)
}

// ReorderProjects applies the order posted in the projectIds field
func (h *Handler) ReorderProjects(w http.ResponseWriter, r *http.Request) {
	languageID, ok := idParam(w, r, "languageId")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	ids, err := parseIDList(r.FormValue("projectIds"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.afterMutation(w, r, h.Store.ReorderProjects(r.Context(), languageID, ids))
}

// ClearError dismisses the store's last failure
func (h *Handler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.Store.ClearError()
	if isFragment(r) {
		h.render(w, r, http.StatusOK, "", templates.ErrorBanner(""))
		return
	}
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Placeholder serves a section without an editor yet
func (h *Handler) Placeholder(title, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, title, templates.Placeholder(title, message))
	}
}

type healthResponse struct {
	Status   string         `json:"status"`
	Upstream *models.Health `json:"upstream,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Health reports dashboard liveness and the upstream API's health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	upstream, err := h.Upstream.Health(r.Context())
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		resp.Upstream = upstream
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Printf("[WEB] Error encoding health: %v", err)
	}
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
