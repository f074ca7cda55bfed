package store

import (
	"database/sql"
	"fmt"
)

const SchemaVersion = 1

type migration struct {
	version int
	sql     string
}

// The extractor owns this schema; the copy here exists so fixtures can be
// built without running the extraction pipeline, and so version drift is
// caught instead of silently misread.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS types (
  id INTEGER PRIMARY KEY,
  full_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS methods (
  id INTEGER PRIMARY KEY,
  type_id INTEGER NOT NULL REFERENCES types(id),
  name TEXT NOT NULL,
  signature TEXT NOT NULL,
  return_type TEXT NOT NULL DEFAULT '',
  file_path TEXT NOT NULL DEFAULT '',
  line_number INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS calls (
  caller_id INTEGER NOT NULL,
  callee_id INTEGER NOT NULL,
  file_path TEXT NOT NULL DEFAULT '',
  line_number INTEGER NOT NULL DEFAULT 0
);
CREATE VIRTUAL TABLE IF NOT EXISTS method_bodies USING fts5(
  method_id UNINDEXED,
  body
);
CREATE TABLE IF NOT EXISTS harmony_patches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mod_name TEXT NOT NULL,
  target_type TEXT NOT NULL,
  target_method TEXT NOT NULL,
  patch_type TEXT NOT NULL DEFAULT '',
  file_path TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS xml_changes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mod_name TEXT NOT NULL,
  file_name TEXT NOT NULL,
  xpath TEXT NOT NULL,
  change_type TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_methods_name ON methods(name);
CREATE INDEX IF NOT EXISTS idx_calls_caller ON calls(caller_id);
CREATE INDEX IF NOT EXISTS idx_calls_callee ON calls(callee_id);
CREATE INDEX IF NOT EXISTS idx_patches_target ON harmony_patches(target_type, target_method);
CREATE INDEX IF NOT EXISTS idx_patches_mod ON harmony_patches(mod_name);
CREATE INDEX IF NOT EXISTS idx_xml_target ON xml_changes(file_name, xpath);
CREATE INDEX IF NOT EXISTS idx_xml_mod ON xml_changes(mod_name);
`,
	},
}

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}

	return nil
}
