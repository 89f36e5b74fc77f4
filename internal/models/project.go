// models/project.go - Data models for the portfolio admin
package models

// Project is a portfolio entry grouped under a language.
// Timestamps are kept as the strings the API sends.
type Project struct {
	ID           int64    `json:"id"`
	LanguageID   int64    `json:"languageId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	DemoLink     string   `json:"demoLink,omitempty"`
	CodeLink     string   `json:"codeLink,omitempty"`
	Featured     bool     `json:"featured"`
	ShowDemo     bool     `json:"showDemo"`
	ShowCode     bool     `json:"showCode"`
	OrderIndex   int      `json:"orderIndex"`
	Technologies []string `json:"technologies"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// ProjectCreate is the POST body. Nil flags are left to server defaults.
type ProjectCreate struct {
	LanguageID   int64    `json:"languageId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
	DemoLink     *string  `json:"demoLink,omitempty"`
	CodeLink     *string  `json:"codeLink,omitempty"`
	Featured     *bool    `json:"featured,omitempty"`
	ShowDemo     *bool    `json:"showDemo,omitempty"`
	ShowCode     *bool    `json:"showCode,omitempty"`
	OrderIndex   *int     `json:"orderIndex,omitempty"`
	Technologies []string `json:"technologies"`
}

// ProjectUpdate is the PATCH body; only non-nil fields are sent.
type ProjectUpdate struct {
	LanguageID   *int64    `json:"languageId,omitempty"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	DemoLink     *string   `json:"demoLink,omitempty"`
	CodeLink     *string   `json:"codeLink,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	ShowDemo     *bool     `json:"showDemo,omitempty"`
	ShowCode     *bool     `json:"showCode,omitempty"`
	OrderIndex   *int      `json:"orderIndex,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
}

// Language groups projects. Not cached by the store.
type Language struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
	IsDefault bool   `json:"isDefault"`
}

// ProjectsResponse wraps the by-language listing
type ProjectsResponse struct {
	FeaturedProjects []Project `json:"featuredProjects"`
}

// ReorderRequest is the body of a reorder call
type ReorderRequest struct {
	ProjectIDs []int64 `json:"projectIds"`
}

// Health is the liveness triplet returned by /health
type Health struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// Ptr returns a pointer to v, for filling optional DTO fields
func Ptr[T any](v T) *T {
	return &v
}
