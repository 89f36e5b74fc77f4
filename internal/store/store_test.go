package store

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-latif/portfolio-admin/internal/api"
	"github.com/noor-latif/portfolio-admin/internal/models"
)

// fakeAPI is an in-memory ProjectsAPI. Set err to make the next call fail.
type fakeAPI struct {
	mu       sync.Mutex
	projects []models.Project
	nextID   int64
	err      error
	calls    []string

	// loadingSeen records Loading() as observed from inside a call.
	store       *ProjectStore
	loadingSeen []bool
}

func newFakeAPI(projects ...models.Project) *fakeAPI {
	return &fakeAPI{projects: projects, nextID: 100}
}

func (f *fakeAPI) enter(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.err
	st := f.store
	f.mu.Unlock()
	if st != nil {
		f.mu.Lock()
		f.loadingSeen = append(f.loadingSeen, st.Loading())
		f.mu.Unlock()
	}
	return err
}

func (f *fakeAPI) GetAll(_ context.Context, languageID *int64) ([]models.Project, error) {
	if err := f.enter("GetAll"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if languageID == nil || *languageID == 0 || p.LanguageID == *languageID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetByLanguage(_ context.Context, code string) (*models.ProjectsResponse, error) {
	if err := f.enter("GetByLanguage"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	langs := map[string]int64{"en": 1, "fr": 2}
	resp := &models.ProjectsResponse{FeaturedProjects: []models.Project{}}
	for _, p := range f.projects {
		if p.LanguageID == langs[code] && p.Featured {
			resp.FeaturedProjects = append(resp.FeaturedProjects, p)
		}
	}
	return resp, nil
}

func (f *fakeAPI) GetByID(_ context.Context, id int64) (*models.Project, error) {
	if err := f.enter("GetByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

func (f *fakeAPI) Create(_ context.Context, data models.ProjectCreate) (*models.Project, error) {
	if err := f.enter("Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := models.Project{
		ID:           f.nextID,
		LanguageID:   data.LanguageID,
		Title:        data.Title,
		Description:  data.Description,
		Technologies: data.Technologies,
	}
	if data.Featured != nil {
		p.Featured = *data.Featured
	}
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, data models.ProjectUpdate) (*models.Project, error) {
	if err := f.enter("Update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == id {
			if data.Title != nil {
				f.projects[i].Title = *data.Title
			}
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	if err := f.enter("Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return &api.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

func (f *fakeAPI) ToggleFeatured(_ context.Context, id int64) (*models.Project, error) {
	if err := f.enter("ToggleFeatured"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects[i].Featured = !f.projects[i].Featured
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

func (f *fakeAPI) Reorder(_ context.Context, languageID int64, ids []int64) ([]models.Project, error) {
	if err := f.enter("Reorder"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for pos, id := range ids {
		for i := range f.projects {
			if f.projects[i].ID == id && f.projects[i].LanguageID == languageID {
				f.projects[i].OrderIndex = pos
				out = append(out, f.projects[i])
			}
		}
	}
	return out, nil
}

func newTestStore(t *testing.T, f *fakeAPI) (*ProjectStore, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	s := New(f, WithLogger(log.New(&logs, "", 0)))
	return s, &logs
}

func seed() []models.Project {
	return []models.Project{
		{ID: 1, LanguageID: 1, Title: "one", OrderIndex: 0, Featured: true},
		{ID: 2, LanguageID: 1, Title: "two", OrderIndex: 1},
		{ID: 3, LanguageID: 1, Title: "three", OrderIndex: 2, Featured: true},
		{ID: 4, LanguageID: 2, Title: "quatre", OrderIndex: 0},
	}
}

func ids(projects []models.Project) []int64 {
	out := make([]int64, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestNewStoreIsEmpty(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI())
	st := s.Snapshot()
	assert.Empty(t, st.Projects)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Nil(t, st.SelectedLanguageID)
}

func TestFetchProjectsReplacesInServerOrder(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)

	s.FetchProjects(context.Background(), nil)

	if diff := cmp.Diff(seed(), s.Projects()); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, s.SelectedLanguageID())
	assert.False(t, s.Loading())
}

func TestFetchProjectsRecordsLanguage(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))

	lang := int64(2)
	s.FetchProjects(context.Background(), &lang)

	assert.Equal(t, []int64{4}, ids(s.Projects()))
	require.NotNil(t, s.SelectedLanguageID())
	assert.Equal(t, int64(2), *s.SelectedLanguageID())

	// a later unfiltered fetch keeps the selection
	s.FetchProjects(context.Background(), nil)
	assert.Len(t, s.Projects(), 4)
	require.NotNil(t, s.SelectedLanguageID())
	assert.Equal(t, []int64{4}, ids(s.ProjectsByLanguage()))
}

func TestFetchProjectsZeroLanguageIsUnset(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))

	zero := int64(0)
	s.FetchProjects(context.Background(), &zero)
	assert.Nil(t, s.SelectedLanguageID())
	assert.Len(t, s.ProjectsByLanguage(), 4)
}

func TestFetchProjectsFailureIsRecordedNotReturned(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, logs := newTestStore(t, f)
	s.FetchProjects(context.Background(), nil)

	f.err = &api.APIError{StatusCode: http.StatusInternalServerError, Message: "database offline"}
	s.FetchProjects(context.Background(), nil)

	assert.Equal(t, "database offline", s.Error())
	assert.Len(t, s.Projects(), 4, "failed fetch keeps the previous cache")
	assert.False(t, s.Loading())
	assert.Contains(t, logs.String(), "[STORE] Error fetching projects")
}

func TestFetchProjectsByLanguage(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))

	s.FetchProjectsByLanguage(context.Background(), "en")
	assert.Equal(t, []int64{1, 3}, ids(s.Projects()))

	s.FetchProjectsByLanguage(context.Background(), "fr")
	assert.Empty(t, s.Projects())
	assert.Empty(t, s.Error())
}

func TestFetchProjectsByLanguageFailure(t *testing.T) {
	f := newFakeAPI()
	f.err = errors.New("")
	s, _ := newTestStore(t, f)

	s.FetchProjectsByLanguage(context.Background(), "en")
	assert.Equal(t, MsgFetchFailed, s.Error())
}

func TestFeaturedProjectsTracksMutations(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()

	check := func() {
		t.Helper()
		var want []models.Project
		for _, p := range s.Projects() {
			if p.Featured {
				want = append(want, p)
			}
		}
		if diff := cmp.Diff(want, s.FeaturedProjects()); diff != "" {
			t.Fatalf("featured mismatch (-want +got):\n%s", diff)
		}
	}

	s.FetchProjects(ctx, nil)
	check()
	_, err := s.CreateProject(ctx, models.ProjectCreate{LanguageID: 1, Title: "new", Featured: models.Ptr(true)})
	require.NoError(t, err)
	check()
	_, err = s.ToggleProjectFeatured(ctx, 1)
	require.NoError(t, err)
	check()
	require.NoError(t, s.DeleteProject(ctx, 3))
	check()
	require.NoError(t, s.ReorderProjects(ctx, 1, []int64{2, 1}))
	check()
}

func TestCreateProjectAppends(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	created, err := s.CreateProject(ctx, models.ProjectCreate{LanguageID: 2, Title: "cinq"})
	require.NoError(t, err)

	projects := s.Projects()
	last := projects[len(projects)-1]
	assert.Equal(t, created.ID, last.ID)
	assert.Equal(t, int64(101), last.ID)
	assert.Len(t, projects, 5)
}

func TestCreateProjectFailureIsReturned(t *testing.T) {
	f := newFakeAPI()
	f.err = &api.APIError{StatusCode: http.StatusBadRequest, Message: "title should not be empty"}
	s, _ := newTestStore(t, f)

	_, err := s.CreateProject(context.Background(), models.ProjectCreate{})
	require.Error(t, err)
	assert.Equal(t, "title should not be empty", s.Error())
	assert.Empty(t, s.Projects())
}

func TestUpdateProjectReplacesInPlace(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	updated, err := s.UpdateProject(ctx, 2, models.ProjectUpdate{Title: models.Ptr("deux")})
	require.NoError(t, err)
	assert.Equal(t, "deux", updated.Title)

	projects := s.Projects()
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(projects))
	assert.Equal(t, "deux", projects[1].Title)
}

func TestUpdateProjectNotCachedLeavesCache(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()
	lang := int64(2)
	s.FetchProjects(ctx, &lang)

	_, err := s.UpdateProject(ctx, 1, models.ProjectUpdate{Title: models.Ptr("remote")})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(s.Projects()))
	assert.Equal(t, "remote", f.projects[0].Title)
}

func TestUpdateProjectFailureLeavesProjects(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()
	s.FetchProjects(ctx, nil)
	before := s.Projects()

	f.err = &api.APIError{StatusCode: http.StatusConflict, Message: "stale project"}
	_, err := s.UpdateProject(ctx, 2, models.ProjectUpdate{Title: models.Ptr("nope")})
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "stale project", s.Error())
	if diff := cmp.Diff(before, s.Projects()); diff != "" {
		t.Fatalf("projects changed (-before +after):\n%s", diff)
	}
	assert.False(t, s.Loading())
}

func TestUpdateProjectFailureFallback(t *testing.T) {
	f := newFakeAPI(seed()...)
	f.err = &api.APIError{StatusCode: http.StatusInternalServerError}
	s, _ := newTestStore(t, f)

	_, err := s.UpdateProject(context.Background(), 2, models.ProjectUpdate{})
	require.Error(t, err)
	assert.Equal(t, "API Error: status 500, message: ", s.Error())

	f.err = errors.New("")
	_, err = s.UpdateProject(context.Background(), 2, models.ProjectUpdate{})
	require.Error(t, err)
	assert.Equal(t, MsgUpdateFailed, s.Error())
}

func TestDeleteProjectRemoves(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	require.NoError(t, s.DeleteProject(ctx, 3))
	for _, p := range s.Projects() {
		assert.NotEqual(t, int64(3), p.ID)
	}
	assert.Equal(t, []int64{1, 2, 4}, ids(s.Projects()))
}

func TestDeleteProjectFailure(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	err := s.DeleteProject(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Equal(t, "not found", s.Error())
	assert.Len(t, s.Projects(), 4)
}

func TestToggleFeaturedTwiceRestores(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)
	original := s.Projects()[1].Featured

	_, err := s.ToggleProjectFeatured(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, !original, s.Projects()[1].Featured)

	_, err = s.ToggleProjectFeatured(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, original, s.Projects()[1].Featured)
}

func TestToggleFeaturedFailure(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	f.err = errors.New("")

	_, err := s.ToggleProjectFeatured(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, MsgToggleFailed, s.Error())
}

func TestReorderProjects(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	require.NoError(t, s.ReorderProjects(ctx, 1, []int64{3, 1, 2}))

	var lang1 []models.Project
	var other []models.Project
	for _, p := range s.Projects() {
		if p.LanguageID == 1 {
			lang1 = append(lang1, p)
		} else {
			other = append(other, p)
		}
	}
	assert.Equal(t, []int64{3, 1, 2}, ids(lang1))
	for i, p := range lang1 {
		assert.Equal(t, i, p.OrderIndex)
	}
	assert.Equal(t, []models.Project{seed()[3]}, other)

	all := s.Projects()
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].OrderIndex, all[i].OrderIndex)
	}
}

func TestReorderProjectsExtremeOrderIndexes(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(
		models.Project{ID: 1, LanguageID: 1},
		models.Project{ID: 2, LanguageID: 2, OrderIndex: math.MinInt},
		models.Project{ID: 3, LanguageID: 2, OrderIndex: math.MaxInt},
	))
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	require.NoError(t, s.ReorderProjects(ctx, 1, []int64{1}))
	assert.Equal(t, []int64{2, 1, 3}, ids(s.Projects()))
}

func TestReorderProjectsFailure(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()
	s.FetchProjects(ctx, nil)

	f.err = errors.New("")
	require.Error(t, s.ReorderProjects(ctx, 1, []int64{3, 1, 2}))
	assert.Equal(t, MsgReorderFailed, s.Error())
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Projects()))
}

func TestNextOperationClearsError(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()

	f.err = errors.New("boom")
	s.FetchProjects(ctx, nil)
	assert.Equal(t, "boom", s.Error())

	f.err = nil
	s.FetchProjects(ctx, nil)
	assert.Empty(t, s.Error())
}

func TestClearErrorIndependentOfLoading(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	f.err = errors.New("boom")
	s.FetchProjects(context.Background(), nil)
	require.Equal(t, "boom", s.Error())

	s.ClearError()
	assert.Empty(t, s.Error())
	assert.False(t, s.Loading())

	s.update(func() {
		s.loading = true
		s.err = "still running"
	})
	s.ClearError()
	assert.Empty(t, s.Error())
	assert.True(t, s.Loading())
}

func TestLoadingIsSetDuringCall(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	f.store = s
	ctx := context.Background()

	s.FetchProjects(ctx, nil)
	_, _ = s.CreateProject(ctx, models.ProjectCreate{LanguageID: 1})
	f.err = errors.New("boom")
	_ = s.DeleteProject(ctx, 1)

	assert.Equal(t, []bool{true, true, true}, f.loadingSeen)
	assert.False(t, s.Loading())
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))

	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })

	s.FetchProjects(context.Background(), nil)
	require.Len(t, states, 3)
	assert.True(t, states[0].Loading)
	assert.Empty(t, states[0].Projects)
	assert.True(t, states[1].Loading)
	assert.Len(t, states[1].Projects, 4)
	assert.False(t, states[2].Loading)

	unsubscribe()
	s.ClearError()
	assert.Len(t, states, 3)
}

func TestLogChanges(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	var out bytes.Buffer
	s.Subscribe(LogChanges(log.New(&out, "", 0)))

	lang := int64(2)
	s.FetchProjects(context.Background(), &lang)
	f.err = errors.New("boom")
	s.FetchProjects(context.Background(), nil)

	want := []string{
		`[STORE] projects=0 language=all loading=true error=""`,
		`[STORE] projects=1 language=2 loading=true error=""`,
		`[STORE] projects=1 language=2 loading=false error=""`,
		`[STORE] projects=1 language=2 loading=true error=""`,
		`[STORE] projects=1 language=2 loading=true error="boom"`,
		`[STORE] projects=1 language=2 loading=false error="boom"`,
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("log lines (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	s.FetchProjects(context.Background(), nil)

	st := s.Snapshot()
	st.Projects[0].Title = "mutated"
	assert.Equal(t, "one", s.Projects()[0].Title)
}

func TestFindProject(t *testing.T) {
	f := newFakeAPI(seed()...)
	s, _ := newTestStore(t, f)
	ctx := context.Background()
	lang := int64(2)
	s.FetchProjects(ctx, &lang)

	p, err := s.FindProject(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "quatre", p.Title)
	assert.NotContains(t, f.calls, "GetByID")

	p, err = s.FindProject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "one", p.Title)
	assert.Contains(t, f.calls, "GetByID")
	assert.Equal(t, []int64{4}, ids(s.Projects()))

	_, err = s.FindProject(ctx, 404)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestConcurrentOperationsSettle(t *testing.T) {
	s, _ := newTestStore(t, newFakeAPI(seed()...))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.FetchProjects(ctx, nil)
		}()
	}
	wg.Wait()

	assert.False(t, s.Loading())
	assert.Len(t, s.Projects(), 4)
}
