package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/noor-latif/portfolio-admin/internal/models"
)

// GetAll lists projects, filtered by language when languageID is set.
// Corresponds to GET /projects?languageId=
func (c *Client) GetAll(ctx context.Context, languageID *int64) ([]models.Project, error) {
	var projects []models.Project
	err := c.do(ctx, request{
		op:     "GetAll",
		method: http.MethodGet,
		path:   "/projects",
		query:  languageQuery(languageID),
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByLanguage lists the featured projects of a language, keyed by its code.
// Corresponds to GET /projects/by-language/{code}
func (c *Client) GetByLanguage(ctx context.Context, languageCode string) (*models.ProjectsResponse, error) {
	if strings.TrimSpace(languageCode) == "" {
		return nil, fmt.Errorf("languageCode cannot be empty")
	}
	// dot segments would be cleaned out of the joined path
	if languageCode == "." || languageCode == ".." {
		return nil, fmt.Errorf("invalid languageCode %q", languageCode)
	}
	var resp models.ProjectsResponse
	err := c.do(ctx, request{
		op:     "GetByLanguage",
		method: http.MethodGet,
		path:   "/projects/by-language/" + url.PathEscape(languageCode),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFeatured lists featured projects.
// Corresponds to GET /projects/featured?languageId=
func (c *Client) GetFeatured(ctx context.Context, languageID *int64) ([]models.Project, error) {
	var projects []models.Project
	err := c.do(ctx, request{
		op:     "GetFeatured",
		method: http.MethodGet,
		path:   "/projects/featured",
		query:  languageQuery(languageID),
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID retrieves one project. A missing project matches ErrNotFound.
// Corresponds to GET /projects/{id}
func (c *Client) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, request{
		op:     "GetByID",
		method: http.MethodGet,
		path:   fmt.Sprintf("/projects/%d", id),
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a project and returns it with id and timestamps filled.
// Corresponds to POST /projects
func (c *Client) Create(ctx context.Context, data models.ProjectCreate) (*models.Project, error) {
	var created models.Project
	err := c.do(ctx, request{
		op:     "Create",
		method: http.MethodPost,
		path:   "/projects",
		body:   data,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update patches the fields set in data.
// Corresponds to PATCH /projects/{id}
func (c *Client) Update(ctx context.Context, id int64, data models.ProjectUpdate) (*models.Project, error) {
	var updated models.Project
	err := c.do(ctx, request{
		op:     "Update",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/projects/%d", id),
		body:   data,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a project.
// Corresponds to DELETE /projects/{id}
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		op:     "Delete",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/projects/%d", id),
	}, nil)
}

// ToggleFeatured flips the featured flag server-side.
// Corresponds to PATCH /projects/{id}/toggle-featured
func (c *Client) ToggleFeatured(ctx context.Context, id int64) (*models.Project, error) {
	var updated models.Project
	err := c.do(ctx, request{
		op:     "ToggleFeatured",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/projects/%d/toggle-featured", id),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reorder sets the display order of a language's projects to projectIDs and
// returns that language's projects with their new orderIndex.
// Corresponds to PATCH /projects/reorder/{languageId}
func (c *Client) Reorder(ctx context.Context, languageID int64, projectIDs []int64) ([]models.Project, error) {
	if projectIDs == nil {
		projectIDs = []int64{}
	}
	var projects []models.Project
	err := c.do(ctx, request{
		op:     "Reorder",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/projects/reorder/%d", languageID),
		body:   models.ReorderRequest{ProjectIDs: projectIDs},
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Health fetches the API health report.
// Corresponds to GET /health
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var health models.Health
	err := c.do(ctx, request{
		op:     "Health",
		method: http.MethodGet,
		path:   "/health",
	}, &health)
	if err != nil {
		return nil, err
	}
	return &health, nil
}
