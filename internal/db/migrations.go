package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS services (
			position              INTEGER NOT NULL,
			network_id            INTEGER NOT NULL DEFAULT 0,
			service_id            INTEGER NOT NULL,
			source_id             INTEGER,
			name                  TEXT NOT NULL DEFAULT '',
			type                  INTEGER NOT NULL DEFAULT 1,
			logo_id               INTEGER NOT NULL DEFAULT 0,
			remote_control_key_id INTEGER NOT NULL DEFAULT 0,
			has_logo_data         INTEGER NOT NULL DEFAULT 0,
			channel_type          TEXT,
			channel               TEXT,
			PRIMARY KEY (network_id, service_id)
		);

		CREATE TABLE IF NOT EXISTS channels (
			position INTEGER NOT NULL,
			type     TEXT NOT NULL CHECK(type IN ('GR', 'BS', 'CS', 'SKY', 'BS4K')),
			channel  TEXT NOT NULL,
			name     TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (type, channel)
		);

		CREATE TABLE IF NOT EXISTS channel_services (
			channel_type TEXT NOT NULL,
			channel      TEXT NOT NULL,
			position     INTEGER NOT NULL,
			network_id   INTEGER NOT NULL DEFAULT 0,
			service_id   INTEGER NOT NULL,
			PRIMARY KEY (channel_type, channel, position),
			FOREIGN KEY (channel_type, channel) REFERENCES channels(type, channel) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS programs (
			row_id        INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id     INTEGER,
			event_id      INTEGER NOT NULL DEFAULT 0,
			service_id    INTEGER NOT NULL,
			network_id    INTEGER NOT NULL DEFAULT 0,
			start_at      INTEGER NOT NULL,
			duration      INTEGER NOT NULL,
			is_free       INTEGER,
			name          TEXT NOT NULL DEFAULT '',
			description   TEXT NOT NULL DEFAULT '',
			extended      TEXT,
			genres        TEXT,
			related_items TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_programs_start ON programs(start_at);
		CREATE INDEX IF NOT EXISTS idx_programs_service ON programs(network_id, service_id);
		CREATE INDEX IF NOT EXISTS idx_programs_source ON programs(source_id);

		CREATE TABLE IF NOT EXISTS sync_state (
			id        INTEGER PRIMARY KEY CHECK(id = 1),
			synced_at DATETIME NOT NULL
		);
	`

	if err := s.dropLegacyPrograms(); err != nil {
		return err
	}
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

// dropLegacyPrograms removes a programs table keyed on the source id.
// The table only holds the last snapshot, so the next sync refills it.
func (s *SQLite) dropLegacyPrograms() error {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info('programs')`)
	if err != nil {
		return fmt.Errorf("inspecting programs table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	exists, legacy := false, true
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspecting programs table: %w", err)
		}
		exists = true
		if name == "source_id" {
			legacy = false
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspecting programs table: %w", err)
	}
	_ = rows.Close()

	if !exists || !legacy {
		return nil
	}
	if _, err := s.db.Exec(`DROP TABLE programs`); err != nil {
		return fmt.Errorf("dropping legacy programs table: %w", err)
	}
	return nil
}
