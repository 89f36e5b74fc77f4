// store/interface.go - API interface for testability
package store

import (
	"context"

	"github.com/noor-latif/portfolio-admin/internal/api"
	"github.com/noor-latif/portfolio-admin/internal/models"
)

// Compile-time check that the HTTP client satisfies ProjectsAPI
var _ ProjectsAPI = (*api.Client)(nil)

// ProjectsAPI is the subset of the API client the store drives.
type ProjectsAPI interface {
	GetAll(ctx context.Context, languageID *int64) ([]models.Project, error)
	GetByLanguage(ctx context.Context, languageCode string) (*models.ProjectsResponse, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, data models.ProjectCreate) (*models.Project, error)
	Update(ctx context.Context, id int64, data models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	ToggleFeatured(ctx context.Context, id int64) (*models.Project, error)
	Reorder(ctx context.Context, languageID int64, projectIDs []int64) ([]models.Project, error)
}
