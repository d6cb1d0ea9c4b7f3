package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// whole list is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateRebuildSearchIndexes(db); err != nil {
		return fmt.Errorf("rebuilding search indexes: %w", err)
	}
	return nil
}

// searchIndexes maps each full-text table to the base table it indexes.
var searchIndexes = []struct {
	fts  string
	base string
}{
	{fts: "ft_hierarchy", base: "hierarchy"},
	{fts: "ft_position", base: "position"},
}

// migrateRebuildSearchIndexes repopulates a full-text index whose document
// count no longer matches its base table, e.g. a store whose rows were written
// before the index and its triggers existed.
func migrateRebuildSearchIndexes(db *sql.DB) error {
	ctx := context.Background()
	for _, idx := range searchIndexes {
		var rows, indexed int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+idx.base).Scan(&rows); err != nil {
			return fmt.Errorf("counting %s rows: %w", idx.base, err)
		}
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+idx.fts+`_docsize`).Scan(&indexed); err != nil {
			return fmt.Errorf("counting %s documents: %w", idx.fts, err)
		}
		if rows == indexed {
			continue
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO `+idx.fts+`(`+idx.fts+`) VALUES ('rebuild')`); err != nil {
			return fmt.Errorf("rebuilding %s: %w", idx.fts, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS hierarchy (
		node_id   INTEGER PRIMARY KEY,
		name      TEXT NOT NULL,
		parent_id INTEGER REFERENCES hierarchy(node_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_hierarchy_parent ON hierarchy(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hierarchy_name ON hierarchy(name)`,

	`CREATE TABLE IF NOT EXISTS position (
		position_id INTEGER PRIMARY KEY,
		title       TEXT NOT NULL,
		fte         NUMERIC NOT NULL DEFAULT 0 CHECK(fte >= 0),
		office_id   INTEGER NOT NULL REFERENCES hierarchy(node_id) ON DELETE CASCADE,
		grant       INTEGER NOT NULL DEFAULT 0 CHECK(grant IN (0, 1))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_position_office ON position(office_id)`,

	// External-content FTS5 tables: the index stores only tokens, the text
	// is read back from the base table.
	`CREATE VIRTUAL TABLE IF NOT EXISTS ft_hierarchy USING fts5(
		name,
		parent_id UNINDEXED,
		content='hierarchy',
		content_rowid='node_id'
	)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS ft_position USING fts5(
		title,
		fte UNINDEXED,
		office_id UNINDEXED,
		grant UNINDEXED,
		content='position',
		content_rowid='position_id'
	)`,

	`CREATE TRIGGER IF NOT EXISTS hierarchy_ai AFTER INSERT ON hierarchy BEGIN
		INSERT INTO ft_hierarchy(rowid, name, parent_id)
		VALUES (new.node_id, new.name, new.parent_id);
	END`,
	`CREATE TRIGGER IF NOT EXISTS hierarchy_ad AFTER DELETE ON hierarchy BEGIN
		INSERT INTO ft_hierarchy(ft_hierarchy, rowid, name, parent_id)
		VALUES ('delete', old.node_id, old.name, old.parent_id);
	END`,
	`CREATE TRIGGER IF NOT EXISTS hierarchy_au AFTER UPDATE ON hierarchy BEGIN
		INSERT INTO ft_hierarchy(ft_hierarchy, rowid, name, parent_id)
		VALUES ('delete', old.node_id, old.name, old.parent_id);
		INSERT INTO ft_hierarchy(rowid, name, parent_id)
		VALUES (new.node_id, new.name, new.parent_id);
	END`,

	`CREATE TRIGGER IF NOT EXISTS position_ai AFTER INSERT ON position BEGIN
		INSERT INTO ft_position(rowid, title, fte, office_id, grant)
		VALUES (new.position_id, new.title, new.fte, new.office_id, new.grant);
	END`,
	`CREATE TRIGGER IF NOT EXISTS position_ad AFTER DELETE ON position BEGIN
		INSERT INTO ft_position(ft_position, rowid, title, fte, office_id, grant)
		VALUES ('delete', old.position_id, old.title, old.fte, old.office_id, old.grant);
	END`,
	`CREATE TRIGGER IF NOT EXISTS position_au AFTER UPDATE ON position BEGIN
		INSERT INTO ft_position(ft_position, rowid, title, fte, office_id, grant)
		VALUES ('delete', old.position_id, old.title, old.fte, old.office_id, old.grant);
		INSERT INTO ft_position(rowid, title, fte, office_id, grant)
		VALUES (new.position_id, new.title, new.fte, new.office_id, new.grant);
	END`,
}
