// Package store holds the client-side project cache and the loading/error
// state the dashboard renders from.
//
// The cache is only ever replaced by a fetch or patched after the API has
// confirmed a mutation. All operations share one loading flag and one error
// field; overlapping calls race on them and the last one to settle wins.
package store

import (
	"cmp"
	"context"
	"errors"
	"log"
	"slices"
	"strconv"
	"sync"

	"github.com/noor-latif/portfolio-admin/internal/api"
	"github.com/noor-latif/portfolio-admin/internal/models"
)

// Fallback messages used when a failure carries no text of its own.
const (
	MsgFetchFailed   = "Failed to fetch projects"
	MsgCreateFailed  = "Failed to create project"
	MsgUpdateFailed  = "Failed to update project"
	MsgDeleteFailed  = "Failed to delete project"
	MsgToggleFailed  = "Failed to toggle featured status"
	MsgReorderFailed = "Failed to reorder projects"
)

// State is a point-in-time copy of the store.
type State struct {
	Projects           []models.Project
	Loading            bool
	Error              string
	SelectedLanguageID *int64
}

// FeaturedProjects returns the featured subsequence of s.Projects.
func (s State) FeaturedProjects() []models.Project {
	return featured(s.Projects)
}

// ProjectsByLanguage returns s.Projects narrowed to the selected language.
func (s State) ProjectsByLanguage() []models.Project {
	return byLanguage(s.Projects, s.SelectedLanguageID)
}

type listener struct {
	id int
	fn func(State)
}

// ProjectStore caches projects fetched through a ProjectsAPI.
type ProjectStore struct {
	api    ProjectsAPI
	logger *log.Logger

	mu                 sync.Mutex
	projects           []models.Project
	loading            bool
	err                string
	selectedLanguageID *int64

	listeners []listener
	nextID    int
}

// Option configures a ProjectStore.
type Option func(*ProjectStore)

// WithLogger sets where failures are logged.
func WithLogger(l *log.Logger) Option {
	return func(s *ProjectStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty store backed by client.
func New(client ProjectsAPI, opts ...Option) *ProjectStore {
	s := &ProjectStore{
		api:    client,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every state change.
// Listeners run synchronously on the goroutine that made the change.
func (s *ProjectStore) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

// LogChanges returns a listener for Subscribe that logs each state change
// to l on one line.
func LogChanges(l *log.Logger) func(State) {
	return func(st State) {
		lang := "all"
		if st.SelectedLanguageID != nil {
			lang = strconv.FormatInt(*st.SelectedLanguageID, 10)
		}
		l.Printf("[STORE] projects=%d language=%s loading=%t error=%q", len(st.Projects), lang, st.Loading, st.Error)
	}
}

// Snapshot copies the current state.
func (s *ProjectStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ProjectStore) snapshotLocked() State {
	st := State{
		Projects: slices.Clone(s.projects),
		Loading:  s.loading,
		Error:    s.err,
	}
	if s.selectedLanguageID != nil {
		id := *s.selectedLanguageID
		st.SelectedLanguageID = &id
	}
	return st
}

// Projects returns a copy of the cached collection.
func (s *ProjectStore) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects)
}

// Loading reports whether an operation is in flight.
func (s *ProjectStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the last failure message, or "" when there is none.
func (s *ProjectStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SelectedLanguageID returns the last language filter passed to FetchProjects.
func (s *ProjectStore) SelectedLanguageID() *int64 {
	return s.Snapshot().SelectedLanguageID
}

// FeaturedProjects is recomputed from the cache on every call.
func (s *ProjectStore) FeaturedProjects() []models.Project {
	return s.Snapshot().FeaturedProjects()
}

// ProjectsByLanguage is recomputed from the cache on every call.
func (s *ProjectStore) ProjectsByLanguage() []models.Project {
	return s.Snapshot().ProjectsByLanguage()
}

// update applies fn under the lock, then notifies listeners outside it.
func (s *ProjectStore) update(fn func()) {
	s.mu.Lock()
	fn()
	st := s.snapshotLocked()
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn(st)
	}
}

// begin marks an operation in flight and returns its release.
func (s *ProjectStore) begin() (release func()) {
	s.update(func() {
		s.loading = true
		s.err = ""
	})
	return func() {
		s.update(func() { s.loading = false })
	}
}

// fail records err as the store error and logs it.
func (s *ProjectStore) fail(err error, fallback, doing string) {
	msg := errorMessage(err, fallback)
	s.update(func() { s.err = msg })
	s.logger.Printf("[STORE] Error %s: %v", doing, err)
}

// errorMessage prefers the server's message, then the error text, then fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

// ClearError drops the recorded failure, whether or not an operation is in flight.
func (s *ProjectStore) ClearError() {
	s.update(func() { s.err = "" })
}

// FetchProjects replaces the cache with the API's listing. A non-zero
// languageID filters the listing and becomes the selected language.
// Failures are recorded in Error, not returned.
func (s *ProjectStore) FetchProjects(ctx context.Context, languageID *int64) {
	defer s.begin()()

	projects, err := s.api.GetAll(ctx, languageID)
	if err != nil {
		s.fail(err, MsgFetchFailed, "fetching projects")
		return
	}
	s.update(func() {
		s.projects = slices.Clone(projects)
		if languageID != nil && *languageID != 0 {
			id := *languageID
			s.selectedLanguageID = &id
		}
	})
}

// FetchProjectsByLanguage replaces the cache with the featured projects of
// the language with the given code. Failures are recorded, not returned.
func (s *ProjectStore) FetchProjectsByLanguage(ctx context.Context, languageCode string) {
	defer s.begin()()

	resp, err := s.api.GetByLanguage(ctx, languageCode)
	if err != nil {
		s.fail(err, MsgFetchFailed, "fetching projects by language")
		return
	}
	s.update(func() { s.projects = slices.Clone(resp.FeaturedProjects) })
}

// CreateProject creates a project and appends it to the cache.
func (s *ProjectStore) CreateProject(ctx context.Context, data models.ProjectCreate) (*models.Project, error) {
	defer s.begin()()

	created, err := s.api.Create(ctx, data)
	if err != nil {
		s.fail(err, MsgCreateFailed, "creating project")
		return nil, err
	}
	s.update(func() { s.projects = append(s.projects, *created) })
	return created, nil
}

// UpdateProject patches a project and replaces its cached copy in place.
// A project that is not cached is updated server-side only.
func (s *ProjectStore) UpdateProject(ctx context.Context, id int64, data models.ProjectUpdate) (*models.Project, error) {
	defer s.begin()()

	updated, err := s.api.Update(ctx, id, data)
	if err != nil {
		s.fail(err, MsgUpdateFailed, "updating project")
		return nil, err
	}
	s.update(func() { s.replaceLocked(id, *updated) })
	return updated, nil
}

// DeleteProject deletes a project and drops it from the cache.
func (s *ProjectStore) DeleteProject(ctx context.Context, id int64) error {
	defer s.begin()()

	if err := s.api.Delete(ctx, id); err != nil {
		s.fail(err, MsgDeleteFailed, "deleting project")
		return err
	}
	s.update(func() {
		s.projects = slices.DeleteFunc(slices.Clone(s.projects), func(p models.Project) bool { return p.ID == id })
	})
	return nil
}

// ToggleProjectFeatured flips the featured flag and replaces the cached copy.
func (s *ProjectStore) ToggleProjectFeatured(ctx context.Context, id int64) (*models.Project, error) {
	defer s.begin()()

	updated, err := s.api.ToggleFeatured(ctx, id)
	if err != nil {
		s.fail(err, MsgToggleFailed, "toggling featured status")
		return nil, err
	}
	s.update(func() { s.replaceLocked(id, *updated) })
	return updated, nil
}

// ReorderProjects applies a new order to one language's projects. The
// language's cached entries are swapped for the server's result and the whole
// cache is then sorted by orderIndex.
func (s *ProjectStore) ReorderProjects(ctx context.Context, languageID int64, projectIDs []int64) error {
	defer s.begin()()

	reordered, err := s.api.Reorder(ctx, languageID, projectIDs)
	if err != nil {
		s.fail(err, MsgReorderFailed, "reordering projects")
		return err
	}
	s.update(func() {
		kept := slices.DeleteFunc(slices.Clone(s.projects), func(p models.Project) bool { return p.LanguageID == languageID })
		kept = append(kept, reordered...)
		slices.SortStableFunc(kept, func(a, b models.Project) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
		s.projects = kept
	})
	return nil
}

// FindProject returns the cached project with id, asking the API when it is
// not cached. It does not touch loading, error or the cache.
func (s *ProjectStore) FindProject(ctx context.Context, id int64) (*models.Project, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == id })
	if i != -1 {
		p := s.projects[i]
		s.mu.Unlock()
		return &p, nil
	}
	s.mu.Unlock()

	return s.api.GetByID(ctx, id)
}

// replaceLocked swaps the cached project with the given id, if present.
func (s *ProjectStore) replaceLocked(id int64, p models.Project) {
	i := slices.IndexFunc(s.projects, func(c models.Project) bool { return c.ID == id })
	if i == -1 {
		return
	}
	projects := slices.Clone(s.projects)
	projects[i] = p
	s.projects = projects
}

func featured(projects []models.Project) []models.Project {
	var out []models.Project
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func byLanguage(projects []models.Project, languageID *int64) []models.Project {
	if languageID == nil || *languageID == 0 {
		return projects
	}
	var out []models.Project
	for _, p := range projects {
		if p.LanguageID == *languageID {
			out = append(out, p)
		}
	}
	return out
}
