// templates/projects.go - Dashboard, project list and project form views
package templates

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/noor-latif/portfolio-admin/internal/models"
)

// DashboardData feeds the overview page
type DashboardData struct {
	Projects []models.Project
	Featured []models.Project
	Loading  bool
	Error    string
}

// LanguageGroup is one language's projects in display order
type LanguageGroup struct {
	LanguageID int64
	Projects   []models.Project
}

// ProjectListData feeds the project list page
type ProjectListData struct {
	Groups             []LanguageGroup
	SelectedLanguageID *int64
	Error              string
}

// ProjectFormData feeds the create/edit form
type ProjectFormData struct {
	Project models.Project
	IsEdit  bool
	Error   string
}

// GroupByLanguage splits projects into per-language groups ordered by
// language ID, keeping each group in orderIndex order.
func GroupByLanguage(projects []models.Project) []LanguageGroup {
	var groups []LanguageGroup
	for _, p := range projects {
		i := slices.IndexFunc(groups, func(g LanguageGroup) bool { return g.LanguageID == p.LanguageID })
		if i == -1 {
			groups = append(groups, LanguageGroup{LanguageID: p.LanguageID})
			i = len(groups) - 1
		}
		groups[i].Projects = append(groups[i].Projects, p)
	}
	slices.SortFunc(groups, func(a, b LanguageGroup) int { return cmp.Compare(a.LanguageID, b.LanguageID) })
	for _, g := range groups {
		slices.SortStableFunc(g.Projects, func(a, b models.Project) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
	}
	return groups
}

// Dashboard renders counts and the featured projects
func Dashboard(d DashboardData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		languages := len(GroupByLanguage(d.Projects))

		h.render(ctx, ErrorBanner(d.Error))
		h.raw(`<section id="dashboard"><h1>Dashboard</h1><div class="stats">`)
		stat(h, "Projects", strconv.Itoa(len(d.Projects)))
		stat(h, "Featured", fmt.Sprintf("%d (%.0f%%)", len(d.Featured), percentage(len(d.Featured), len(d.Projects))))
		stat(h, "Languages", strconv.Itoa(languages))
		h.raw(`</div>`)
		if d.Loading {
			h.raw(`<p class="loading">Loading…</p>`)
		}
		h.raw(`<h2>Featured projects</h2>`)
		if len(d.Featured) == 0 {
			h.raw(`<p class="empty">No featured projects yet.</p>`)
		} else {
			h.raw(`<ul class="featured">`)
			for _, p := range d.Featured {
				h.raw(`<li><a href="`)
				h.url(fmt.Sprintf("/projects/%d/edit", p.ID))
				h.raw(`">`)
				h.text(p.Title)
				h.raw(`</a> <span class="tech">`)
				h.text(strings.Join(p.Technologies, ", "))
				h.raw(`</span></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	})
}

func stat(h *htmlWriter, label, value string) {
	h.raw(`<div class="stat"><span class="stat-title">`)
	h.text(label)
	h.raw(`</span><span class="stat-value">`)
	h.text(value)
	h.raw(`</span></div>`)
}

// ProjectList renders every group with its reorder form
func ProjectList(d ProjectListData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.render(ctx, ErrorBanner(d.Error))
		h.raw(`<section id="project-list"><header><h1>Projects</h1>`)
		if d.SelectedLanguageID != nil {
			h.raw(`<span class="filter">language `)
			h.num(*d.SelectedLanguageID)
			h.raw(` <a href="/projects">clear</a></span>`)
		}
		h.raw(`<a class="btn" href="/projects/create">New project</a></header>`)

		if len(d.Groups) == 0 {
			h.raw(`<p class="empty">No projects.</p>`)
		}
		for _, g := range d.Groups {
			h.raw(`<div class="language-group" data-language-id="`)
			h.num(g.LanguageID)
			h.raw(`"><h2><a href="`)
			h.url(fmt.Sprintf("/projects?languageId=%d", g.LanguageID))
			h.raw(`">Language `)
			h.num(g.LanguageID)
			h.raw(`</a></h2><table><thead><tr><th>#</th><th>Title</th><th>Technologies</th><th>Featured</th><th></th></tr></thead><tbody>`)
			ids := make([]string, 0, len(g.Projects))
			for _, p := range g.Projects {
				h.render(ctx, ProjectRow(p))
				ids = append(ids, strconv.FormatInt(p.ID, 10))
			}
			h.raw(`</tbody></table>`)

			action := fmt.Sprintf("/projects/reorder/%d", g.LanguageID)
			h.raw(`<form class="reorder" method="post" action="`)
			h.url(action)
			h.raw(`" hx-post="`)
			h.url(action)
			h.raw(`" hx-target="#content"><input name="projectIds" value="`)
			h.text(strings.Join(ids, ","))
			h.raw(`"><button type="submit">Save order</button></form></div>`)
		}
		h.raw(`</section>`)
	})
}

// ProjectRow renders one project with its actions
func ProjectRow(p models.Project) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		base := fmt.Sprintf("/projects/%d", p.ID)
		h.raw(`<tr id="project-`)
		h.num(p.ID)
		h.raw(`"><td>`)
		h.num(int64(p.OrderIndex))
		h.raw(`</td><td><a href="`)
		h.url(base + "/edit")
		h.raw(`">`)
		h.text(p.Title)
		h.raw(`</a></td><td>`)
		h.text(strings.Join(p.Technologies, ", "))
		h.raw(`</td><td>`)
		actionButton(h, base+"/toggle-featured", featuredLabel(p.Featured))
		h.raw(`</td><td>`)
		actionButton(h, base+"/delete", "Delete")
		h.raw(`</td></tr>`)
	})
}

func featuredLabel(featured bool) string {
	if featured {
		return "★ Featured"
	}
	return "☆ Feature"
}

func actionButton(h *htmlWriter, action, label string) {
	h.raw(`<form method="post" action="`)
	h.url(action)
	h.raw(`" hx-post="`)
	h.url(action)
	h.raw(`" hx-target="#content"><button type="submit">`)
	h.text(label)
	h.raw(`</button></form>`)
}

// ProjectForm renders the create or edit form
func ProjectForm(d ProjectFormData) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		p := d.Project
		action, heading := "/projects", "New project"
		if d.IsEdit {
			action, heading = fmt.Sprintf("/projects/%d", p.ID), "Edit project"
		}

		h.render(ctx, ErrorBanner(d.Error))
		h.raw(`<section id="project-form"><h1>`)
		h.text(heading)
		h.raw(`</h1><form method="post" action="`)
		h.url(action)
		h.raw(`">`)
		input(h, "languageId", "Language ID", "number", strconv.FormatInt(p.LanguageID, 10))
		input(h, "title", "Title", "text", p.Title)
		h.raw(`<label>Description<textarea name="description">`)
		h.text(p.Description)
		h.raw(`</textarea></label>`)
		input(h, "imageUrl", "Image URL", "url", p.ImageURL)
		input(h, "demoLink", "Demo link", "url", p.DemoLink)
		input(h, "codeLink", "Code link", "url", p.CodeLink)
		input(h, "technologies", "Technologies (comma separated)", "text", strings.Join(p.Technologies, ", "))
		if d.IsEdit {
			input(h, "orderIndex", "Order", "number", strconv.Itoa(p.OrderIndex))
		}
		checkbox(h, "featured", "Featured", p.Featured)
		checkbox(h, "showDemo", "Show demo", p.ShowDemo)
		checkbox(h, "showCode", "Show code", p.ShowCode)
		h.raw(`<button type="submit">Save</button> <a href="/projects">Cancel</a></form></section>`)
	})
}

func input(h *htmlWriter, name, label, kind, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input type="`)
	h.raw(kind)
	h.raw(`" name="`)
	h.raw(name)
	h.raw(`" value="`)
	h.text(value)
	h.raw(`"></label>`)
}

func checkbox(h *htmlWriter, name, label string, on bool) {
	h.raw(`<label><input type="checkbox" name="`)
	h.raw(name)
	h.raw(`" value="true"`)
	h.raw(checked(on))
	h.raw(`> `)
	h.text(label)
	h.raw(`</label>`)
}
