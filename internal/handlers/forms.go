// handlers/forms.go - Form parsing helpers
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/noor-latif/portfolio-admin/internal/models"
)

// ParsedForm holds all form values for project creation/update
type ParsedForm struct {
	LanguageID   int64
	Title        string
	Description  string
	ImageURL     string
	DemoLink     string
	CodeLink     string
	Technologies []string
	Featured     bool
	ShowDemo     bool
	ShowCode     bool
	OrderIndex   *int
}

// parseProjectForm extracts and validates form data. Unchecked checkboxes
// are absent from the form and read as false.
func parseProjectForm(r *http.Request) (*ParsedForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	languageID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("languageId")), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid languageId %q", r.FormValue("languageId"))
	}

	f := &ParsedForm{
		LanguageID:   languageID,
		Title:        strings.TrimSpace(r.FormValue("title")),
		Description:  strings.TrimSpace(r.FormValue("description")),
		ImageURL:     strings.TrimSpace(r.FormValue("imageUrl")),
		DemoLink:     strings.TrimSpace(r.FormValue("demoLink")),
		CodeLink:     strings.TrimSpace(r.FormValue("codeLink")),
		Technologies: splitList(r.FormValue("technologies")),
		Featured:     formBool(r, "featured"),
		ShowDemo:     formBool(r, "showDemo"),
		ShowCode:     formBool(r, "showCode"),
	}
	if raw := strings.TrimSpace(r.FormValue("orderIndex")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid orderIndex %q", raw)
		}
		f.OrderIndex = &n
	}
	return f, nil
}

func formBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.FormValue(name))
	return v
}

// splitList turns "go, sqlite,,vue" into [go sqlite vue]
func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDList parses the comma separated projectIds field of a reorder
func parseIDList(raw string) ([]int64, error) {
	parts := splitList(raw)
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid project id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optional maps "" to nil so the server keeps its default
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toCreate converts form data to a create DTO
func (f *ParsedForm) toCreate() models.ProjectCreate {
	return models.ProjectCreate{
		LanguageID:   f.LanguageID,
		Title:        f.Title,
		Description:  f.Description,
		ImageURL:     optional(f.ImageURL),
		DemoLink:     optional(f.DemoLink),
		CodeLink:     optional(f.CodeLink),
		Featured:     models.Ptr(f.Featured),
		ShowDemo:     models.Ptr(f.ShowDemo),
		ShowCode:     models.Ptr(f.ShowCode),
		OrderIndex:   f.OrderIndex,
		Technologies: f.Technologies,
	}
}

// toUpdate converts form data to an update DTO. The form always carries every
// field, so every field is sent.
func (f *ParsedForm) toUpdate() models.ProjectUpdate {
	tech := f.Technologies
	return models.ProjectUpdate{
		LanguageID:   models.Ptr(f.LanguageID),
		Title:        models.Ptr(f.Title),
		Description:  models.Ptr(f.Description),
		ImageURL:     models.Ptr(f.ImageURL),
		DemoLink:     models.Ptr(f.DemoLink),
		CodeLink:     models.Ptr(f.CodeLink),
		Featured:     models.Ptr(f.Featured),
		ShowDemo:     models.Ptr(f.ShowDemo),
		ShowCode:     models.Ptr(f.ShowCode),
		OrderIndex:   f.OrderIndex,
		Technologies: &tech,
	}
}

// project rebuilds the submitted values for re-rendering the form
func (f *ParsedForm) project(id int64) models.Project {
	p := models.Project{
		ID:           id,
		LanguageID:   f.LanguageID,
		Title:        f.Title,
		Description:  f.Description,
		ImageURL:     f.ImageURL,
		DemoLink:     f.DemoLink,
		CodeLink:     f.CodeLink,
		Featured:     f.Featured,
		ShowDemo:     f.ShowDemo,
		ShowCode:     f.ShowCode,
		Technologies: f.Technologies,
	}
	if f.OrderIndex != nil {
		p.OrderIndex = *f.OrderIndex
	}
	return p
}
