// db/queries.go - Centralized SQL queries
package db

const (
	projectColumns = `id, language_id, title, description, image_url, demo_link, code_link,
		featured, show_demo, show_code, order_index, technologies, created_at, updated_at`
	projectTable = `projects`

	languageColumns = `id, code, name, is_active, is_default`
	languageTable   = `languages`

	// ISO-8601 with milliseconds, the shape the API sends timestamps in
	nowExpr = `strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`
)

const schema = `
	CREATE TABLE IF NOT EXISTS languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		is_default INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language_id INTEGER NOT NULL REFERENCES languages(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		demo_link TEXT NOT NULL DEFAULT '',
		code_link TEXT NOT NULL DEFAULT '',
		featured INTEGER NOT NULL DEFAULT 0,
		show_demo INTEGER NOT NULL DEFAULT 1,
		show_code INTEGER NOT NULL DEFAULT 1,
		order_index INTEGER NOT NULL DEFAULT 0,
		technologies TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL DEFAULT (` + nowExpr + `),
		updated_at TEXT NOT NULL DEFAULT (` + nowExpr + `)
	);

	CREATE INDEX IF NOT EXISTS idx_projects_language_order ON projects(language_id, order_index);

	INSERT OR IGNORE INTO languages (code, name, is_active, is_default) VALUES
		('en', 'English', 1, 1),
		('fr', 'Français', 1, 0);
`

// Language queries
const (
	qLanguagesAll   = `SELECT ` + languageColumns + ` FROM ` + languageTable + ` ORDER BY id`
	qLanguageByID   = `SELECT ` + languageColumns + ` FROM ` + languageTable + ` WHERE id = ?`
	qLanguageByCode = `SELECT ` + languageColumns + ` FROM ` + languageTable + ` WHERE code = ?`
)

// Project queries
const (
	qProjectByID = `SELECT ` + projectColumns + ` FROM ` + projectTable + ` WHERE id = ?`

	qProjectsAll = `SELECT ` + projectColumns + ` FROM ` + projectTable +
		` ORDER BY language_id, order_index, id`

	qProjectsByLanguage = `SELECT ` + projectColumns + ` FROM ` + projectTable +
		` WHERE language_id = ? ORDER BY order_index, id`

	qProjectsFeatured = `SELECT ` + projectColumns + ` FROM ` + projectTable +
		` WHERE featured = 1 ORDER BY language_id, order_index, id`

	qProjectsFeaturedByLanguage = `SELECT ` + projectColumns + ` FROM ` + projectTable +
		` WHERE featured = 1 AND language_id = ? ORDER BY order_index, id`

	qProjectNextOrder = `SELECT COALESCE(MAX(order_index) + 1, 0) FROM ` + projectTable + ` WHERE language_id = ?`

	qProjectInsert = `INSERT INTO ` + projectTable +
		` (language_id, title, description, image_url, demo_link, code_link,
		featured, show_demo, show_code, order_index, technologies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	qProjectUpdate = `UPDATE ` + projectTable +
		` SET language_id=?, title=?, description=?, image_url=?, demo_link=?, code_link=?,
		featured=?, show_demo=?, show_code=?, order_index=?, technologies=?, updated_at=` + nowExpr + `
		WHERE id=?`

	qProjectToggleFeatured = `UPDATE ` + projectTable +
		` SET featured = 1 - featured, updated_at=` + nowExpr + ` WHERE id = ?`

	qProjectSetOrder = `UPDATE ` + projectTable +
		` SET order_index = ?, updated_at=` + nowExpr + ` WHERE id = ? AND language_id = ?`

	qProjectLanguage = `SELECT language_id FROM ` + projectTable + ` WHERE id = ?`

	qProjectDelete = `DELETE FROM ` + projectTable + ` WHERE id = ?`
)
