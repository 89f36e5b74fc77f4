// db/sqlite.go - Persistence for the development API
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noor-latif/portfolio-admin/internal/models"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a project or language does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownLanguage is returned when a project refers to a missing language.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrForeignProject is returned when a reorder names a project of another language.
	ErrForeignProject = errors.New("project does not belong to language")
)

// DB wraps sql.DB with our methods
type DB struct {
	*sql.DB
}

// New creates/opens database and runs migrations
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite allows one writer; serialise through a single connection
	sqlDB.SetMaxOpenConns(1)

	db := &DB{sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// migrate creates tables and seeds languages
func (db *DB) migrate() error {
	_, err := db.Exec(schema)
	return err
}

// Generic scanner interface
type scanner interface {
	Scan(dest ...any) error
}

// scanAll drains rows into a slice using scanFn for each row
func scanAll[T any](rows *sql.Rows, scanFn func(scanner) (T, error)) ([]T, error) {
	results := []T{}
	for rows.Next() {
		item, err := scanFn(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func scanLanguage(s scanner) (models.Language, error) {
	var l models.Language
	err := s.Scan(&l.ID, &l.Code, &l.Name, &l.IsActive, &l.IsDefault)
	return l, err
}

func scanProject(s scanner) (models.Project, error) {
	var p models.Project
	var tech string
	err := s.Scan(&p.ID, &p.LanguageID, &p.Title, &p.Description, &p.ImageURL, &p.DemoLink, &p.CodeLink,
		&p.Featured, &p.ShowDemo, &p.ShowCode, &p.OrderIndex, &tech, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(tech), &p.Technologies); err != nil {
		return p, fmt.Errorf("decode technologies of project %d: %w", p.ID, err)
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func encodeTechnologies(tech []string) (string, error) {
	if tech == nil {
		tech = []string{}
	}
	b, err := json.Marshal(tech)
	return string(b), err
}

// ListLanguages returns every language
func (db *DB) ListLanguages(ctx context.Context) ([]models.Language, error) {
	rows, err := db.QueryContext(ctx, qLanguagesAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows, scanLanguage)
}

// LanguageByCode fetches a language by its code
func (db *DB) LanguageByCode(ctx context.Context, code string) (*models.Language, error) {
	l, err := scanLanguage(db.QueryRowContext(ctx, qLanguageByCode, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (db *DB) languageExists(ctx context.Context, id int64) error {
	_, err := scanLanguage(db.QueryRowContext(ctx, qLanguageByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownLanguage
	}
	return err
}

// ListProjects returns projects in display order. A zero languageID lists
// every language.
func (db *DB) ListProjects(ctx context.Context, languageID int64, featuredOnly bool) ([]models.Project, error) {
	var rows *sql.Rows
	var err error

	switch {
	case featuredOnly && languageID != 0:
		rows, err = db.QueryContext(ctx, qProjectsFeaturedByLanguage, languageID)
	case featuredOnly:
		rows, err = db.QueryContext(ctx, qProjectsFeatured)
	case languageID != 0:
		rows, err = db.QueryContext(ctx, qProjectsByLanguage, languageID)
	default:
		rows, err = db.QueryContext(ctx, qProjectsAll)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAll(rows, scanProject)
}

// GetProject fetches a project by ID
func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(db.QueryRowContext(ctx, qProjectByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a project, filling defaults for unset flags. A
// project without an orderIndex goes to the end of its language.
func (db *DB) CreateProject(ctx context.Context, in models.ProjectCreate) (*models.Project, error) {
	if err := db.languageExists(ctx, in.LanguageID); err != nil {
		return nil, err
	}

	p := models.Project{
		LanguageID:   in.LanguageID,
		Title:        in.Title,
		Description:  in.Description,
		ShowDemo:     true,
		ShowCode:     true,
		Technologies: in.Technologies,
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.DemoLink != nil {
		p.DemoLink = *in.DemoLink
	}
	if in.CodeLink != nil {
		p.CodeLink = *in.CodeLink
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.ShowDemo != nil {
		p.ShowDemo = *in.ShowDemo
	}
	if in.ShowCode != nil {
		p.ShowCode = *in.ShowCode
	}
	if in.OrderIndex != nil {
		p.OrderIndex = *in.OrderIndex
	} else if err := db.QueryRowContext(ctx, qProjectNextOrder, in.LanguageID).Scan(&p.OrderIndex); err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	tech, err := encodeTechnologies(p.Technologies)
	if err != nil {
		return nil, err
	}

	var id int64
	err = db.QueryRowContext(ctx, qProjectInsert, p.LanguageID, p.Title, p.Description, p.ImageURL,
		p.DemoLink, p.CodeLink, p.Featured, p.ShowDemo, p.ShowCode, p.OrderIndex, tech).Scan(&id)
	if err != nil {
		return nil, err
	}
	return db.GetProject(ctx, id)
}

// UpdateProject applies the set fields of in to project id
func (db *DB) UpdateProject(ctx context.Context, id int64, in models.ProjectUpdate) (*models.Project, error) {
	p, err := db.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.LanguageID != nil && *in.LanguageID != p.LanguageID {
		if err := db.languageExists(ctx, *in.LanguageID); err != nil {
			return nil, err
		}
	}
	applyUpdate(p, in)

	tech, err := encodeTechnologies(p.Technologies)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, qProjectUpdate, p.LanguageID, p.Title, p.Description, p.ImageURL,
		p.DemoLink, p.CodeLink, p.Featured, p.ShowDemo, p.ShowCode, p.OrderIndex, tech, id)
	if err != nil {
		return nil, err
	}
	return db.GetProject(ctx, id)
}

// applyUpdate copies every non-nil field of in onto p
func applyUpdate(p *models.Project, in models.ProjectUpdate) {
	if in.LanguageID != nil {
		p.LanguageID = *in.LanguageID
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.DemoLink != nil {
		p.DemoLink = *in.DemoLink
	}
	if in.CodeLink != nil {
		p.CodeLink = *in.CodeLink
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.ShowDemo != nil {
		p.ShowDemo = *in.ShowDemo
	}
	if in.ShowCode != nil {
		p.ShowCode = *in.ShowCode
	}
	if in.OrderIndex != nil {
		p.OrderIndex = *in.OrderIndex
	}
	if in.Technologies != nil {
		p.Technologies = *in.Technologies
	}
}

// ToggleFeatured flips the featured flag of project id
func (db *DB) ToggleFeatured(ctx context.Context, id int64) (*models.Project, error) {
	res, err := db.ExecContext(ctx, qProjectToggleFeatured, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetProject(ctx, id)
}

// ReorderProjects sets orderIndex to each id's position in projectIDs and
// returns the language's projects in their new order. Every id must belong
// to the language; nothing is written otherwise.
func (db *DB) ReorderProjects(ctx context.Context, languageID int64, projectIDs []int64) ([]models.Project, error) {
	if err := db.languageExists(ctx, languageID); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for pos, id := range projectIDs {
		var owner int64
		err := tx.QueryRowContext(ctx, qProjectLanguage, id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if owner != languageID {
			return nil, fmt.Errorf("project %d: %w", id, ErrForeignProject)
		}
		if _, err := tx.ExecContext(ctx, qProjectSetOrder, pos, id, languageID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return db.ListProjects(ctx, languageID, false)
}

// DeleteProject removes a project
func (db *DB) DeleteProject(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, qProjectDelete, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
