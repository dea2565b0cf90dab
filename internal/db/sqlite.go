// Package db provides SQLite storage for guide snapshots.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/bangumi/internal/epg"
)

// SQLite implements epg.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SaveDataset replaces the stored snapshot in a single transaction.
func (s *SQLite) SaveDataset(ctx context.Context, ds *epg.Dataset) error {
	if ds.Empty() {
		return epg.ErrEmptyDataset
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"channel_services", "channels", "services", "programs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertServices(ctx, tx, ds.Services); err != nil {
		return err
	}
	if err := insertChannels(ctx, tx, ds.Channels); err != nil {
		return err
	}
	if err := insertPrograms(ctx, tx, ds.Programs); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sync_state (id, synced_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at`,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording sync: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertServices(ctx context.Context, tx *sql.Tx, services []epg.Service) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO services (
			position, network_id, service_id, source_id, name, type, logo_id,
			remote_control_key_id, has_logo_data, channel_type, channel
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, svc := range services {
		var channelType, channel sql.NullString
		if svc.Channel != nil {
			channelType = sql.NullString{String: string(svc.Channel.Type), Valid: true}
			channel = sql.NullString{String: svc.Channel.Channel, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			i,
			svc.NetworkID,
			svc.ServiceID,
			nullInt64(svc.ID),
			svc.Name,
			svc.Type,
			svc.LogoID,
			svc.RemoteControlKeyID,
			svc.HasLogoData,
			channelType,
			channel,
		)
		if err != nil {
			return fmt.Errorf("inserting service %d: %w", svc.ServiceID, err)
		}
	}
	return nil
}

func insertChannels(ctx context.Context, tx *sql.Tx, channels []epg.Channel) error {
	chStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO channels (position, type, channel, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = chStmt.Close() }()

	svcStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO channel_services (channel_type, channel, position, network_id, service_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = svcStmt.Close() }()

	for i, ch := range channels {
		if !ch.Type.Valid() {
			return fmt.Errorf("channel %q: unknown type %q", ch.Channel, ch.Type)
		}
		if _, err := chStmt.ExecContext(ctx, i, ch.Type, ch.Channel, ch.Name); err != nil {
			return fmt.Errorf("inserting channel %s-%s: %w", ch.Type, ch.Channel, err)
		}
		for j, svc := range ch.Services {
			if _, err := svcStmt.ExecContext(ctx, ch.Type, ch.Channel, j, svc.NetworkID, svc.ServiceID); err != nil {
				return fmt.Errorf("inserting channel service %d: %w", svc.ServiceID, err)
			}
		}
	}
	return nil
}

func insertPrograms(ctx context.Context, tx *sql.Tx, programs []epg.Program) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO programs (
			source_id, event_id, service_id, network_id, start_at, duration, is_free,
			name, description, extended, genres, related_items
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range programs {
		extended, err := marshalJSON(p.Extended, len(p.Extended) > 0)
		if err != nil {
			return fmt.Errorf("encoding extended for program %d: %w", p.ID, err)
		}
		genres, err := marshalJSON(p.Genres, len(p.Genres) > 0)
		if err != nil {
			return fmt.Errorf("encoding genres for program %d: %w", p.ID, err)
		}
		related, err := marshalJSON(p.RelatedItems, len(p.RelatedItems) > 0)
		if err != nil {
			return fmt.Errorf("encoding related items for program %d: %w", p.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			nullInt64(p.ID),
			p.EventID,
			p.ServiceID,
			p.NetworkID,
			p.StartAt,
			p.Duration,
			p.IsFree,
			p.Name,
			p.Description,
			extended,
			genres,
			related,
		)
		if err != nil {
			return fmt.Errorf("inserting program %d: %w", p.ID, err)
		}
	}
	return nil
}

// LoadDataset returns the stored snapshot.
func (s *SQLite) LoadDataset(ctx context.Context) (*epg.Dataset, error) {
	services, err := s.listServices(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := s.listChannels(ctx)
	if err != nil {
		return nil, err
	}
	programs, err := s.queryPrograms(ctx, `ORDER BY start_at, service_id, row_id`)
	if err != nil {
		return nil, err
	}
	return &epg.Dataset{Services: services, Channels: channels, Programs: programs}, nil
}

func (s *SQLite) listServices(ctx context.Context) ([]epg.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT network_id, service_id, source_id, name, type, logo_id,
		       remote_control_key_id, has_logo_data, channel_type, channel
		FROM services
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var services []epg.Service
	for rows.Next() {
		var (
			svc                  epg.Service
			sourceID             sql.NullInt64
			channelType, channel sql.NullString
		)
		if err := rows.Scan(
			&svc.NetworkID,
			&svc.ServiceID,
			&sourceID,
			&svc.Name,
			&svc.Type,
			&svc.LogoID,
			&svc.RemoteControlKeyID,
			&svc.HasLogoData,
			&channelType,
			&channel,
		); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		if sourceID.Valid {
			svc.ID = sourceID.Int64
		}
		if channelType.Valid {
			svc.Channel = &epg.ChannelRef{Type: epg.ChannelType(channelType.String), Channel: channel.String}
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating services: %w", err)
	}
	return services, nil
}

func (s *SQLite) listChannels(ctx context.Context) ([]epg.Channel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.type, c.channel, c.name, cs.network_id, cs.service_id
		FROM channels c
		LEFT JOIN channel_services cs ON cs.channel_type = c.type AND cs.channel = c.channel
		ORDER BY c.position, cs.position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var channels []epg.Channel
	for rows.Next() {
		var (
			ch        epg.Channel
			networkID sql.NullInt64
			serviceID sql.NullInt64
		)
		if err := rows.Scan(&ch.Type, &ch.Channel, &ch.Name, &networkID, &serviceID); err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}

		n := len(channels)
		if n == 0 || channels[n-1].Type != ch.Type || channels[n-1].Channel != ch.Channel {
			channels = append(channels, ch)
			n++
		}
		if serviceID.Valid {
			channels[n-1].Services = append(channels[n-1].Services, epg.Service{
				NetworkID: int(networkID.Int64),
				ServiceID: int(serviceID.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channels: %w", err)
	}
	return channels, nil
}

// ListPrograms returns programs starting within [from, to), ordered by start and service.
func (s *SQLite) ListPrograms(ctx context.Context, from, to time.Time) ([]epg.Program, error) {
	return s.queryPrograms(ctx,
		`WHERE start_at >= ? AND start_at < ? ORDER BY start_at, service_id, row_id`,
		from.UnixMilli(), to.UnixMilli(),
	)
}

// GetProgram retrieves a program by its source ID. Programs stored without one
// cannot be looked up.
func (s *SQLite) GetProgram(ctx context.Context, id int64) (*epg.Program, error) {
	programs, err := s.queryPrograms(ctx, `WHERE source_id = ? ORDER BY row_id LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, epg.ErrProgramNotFound
	}
	return &programs[0], nil
}

func (s *SQLite) queryPrograms(ctx context.Context, clause string, args ...any) ([]epg.Program, error) {
	query := `
		SELECT source_id, event_id, service_id, network_id, start_at, duration, is_free,
		       name, description, extended, genres, related_items
		FROM programs
	` + clause

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var programs []epg.Program
	for rows.Next() {
		var (
			p                         epg.Program
			sourceID                  sql.NullInt64
			isFree                    sql.NullBool
			extended, genres, related sql.NullString
		)
		if err := rows.Scan(
			&sourceID,
			&p.EventID,
			&p.ServiceID,
			&p.NetworkID,
			&p.StartAt,
			&p.Duration,
			&isFree,
			&p.Name,
			&p.Description,
			&extended,
			&genres,
			&related,
		); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}

		if sourceID.Valid {
			p.ID = sourceID.Int64
		}
		if isFree.Valid {
			p.IsFree = &isFree.Bool
		}
		if err := unmarshalJSON(extended, &p.Extended); err != nil {
			return nil, fmt.Errorf("decoding extended for program %d: %w", p.ID, err)
		}
		if err := unmarshalJSON(genres, &p.Genres); err != nil {
			return nil, fmt.Errorf("decoding genres for program %d: %w", p.ID, err)
		}
		if err := unmarshalJSON(related, &p.RelatedItems); err != nil {
			return nil, fmt.Errorf("decoding related items for program %d: %w", p.ID, err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return programs, nil
}

// LastSync returns when the snapshot was last saved, zero if never.
func (s *SQLite) LastSync(ctx context.Context) (time.Time, error) {
	var syncedAt string
	err := s.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_state WHERE id = 1`).Scan(&syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying sync state: %w", err)
	}

	t, err := time.Parse(time.RFC3339, syncedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing synced at: %w", err)
	}
	return t.Local(), nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func marshalJSON(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalJSON(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
