package epg

import (
	"context"
	"time"
)

// Repository defines the storage interface for guide snapshots.
type Repository interface {
	// SaveDataset replaces the stored snapshot with the given dataset.
	SaveDataset(ctx context.Context, ds *Dataset) error

	// LoadDataset returns the stored services and channels, and all programs.
	LoadDataset(ctx context.Context) (*Dataset, error)

	// ListPrograms returns programs starting within [from, to).
	ListPrograms(ctx context.Context, from, to time.Time) ([]Program, error)

	// GetProgram retrieves a program by ID.
	// Returns ErrProgramNotFound if it does not exist.
	GetProgram(ctx context.Context, id int64) (*Program, error)

	// LastSync returns when the snapshot was last saved, zero if never.
	LastSync(ctx context.Context) (time.Time, error)

	// Close releases any resources held by the repository.
	Close() error
}
