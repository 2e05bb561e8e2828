// Package video implements the upload/confirm/list/download/delete
// lifecycle for video objects and their metadata records.
package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Video statuses. Forward-only: StatusPending becomes StatusUploaded,
// never the reverse.
const (
	StatusPending  = "sas-generated"
	StatusUploaded = "uploaded"
)

// Video is the metadata record kept for one stored object. ID doubles as
// the object-store key: the two stores are always correlated by it.
type Video struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	UploadTime  time.Time  `json:"uploadTime"`
	Status      string     `json:"status"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// ErrNotFound is returned when a metadata record does not exist.
var ErrNotFound = errors.New("video not found")

// ErrObjectNotFound is returned when the metadata record exists but the
// underlying object does not.
var ErrObjectNotFound = errors.New("video object not found in storage")

// Repository handles all video metadata database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert creates the record at v.ID or fully replaces it if present.
func (r *Repository) Upsert(ctx context.Context, v *Video) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO videos (id, title, upload_time, status, last_updated)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   title        = EXCLUDED.title,
		   upload_time  = EXCLUDED.upload_time,
		   status       = EXCLUDED.status,
		   last_updated = EXCLUDED.last_updated`,
		v.ID, v.Title, v.UploadTime, v.Status, v.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert video %q: %w", v.ID, err)
	}
	return nil
}

// GetByID fetches a record by its object key. Absence is ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*Video, error) {
	v := &Video{}
	err := r.db.QueryRow(ctx,
		`SELECT id, title, upload_time, status, last_updated
		 FROM videos WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Title, &v.UploadTime, &v.Status, &v.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video by id: %w", err)
	}
	return v, nil
}

// ListAll returns every record, most recently uploaded first. The id
// column breaks upload-time ties so the order is deterministic.
func (r *Repository) ListAll(ctx context.Context) ([]Video, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, upload_time, status, last_updated
		 FROM videos ORDER BY upload_time DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Title, &v.UploadTime, &v.Status, &v.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}
	return videos, nil
}

// DeleteByID removes the record if present. Deleting an absent record
// is a no-op, not an error.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete video %q: %w", id, err)
	}
	return nil
}
