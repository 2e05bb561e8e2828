package video

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clipdeck/video-api/internal/config"
	"github.com/clipdeck/video-api/internal/db"
	"github.com/clipdeck/video-api/internal/logger"
	"github.com/clipdeck/video-api/internal/storage"
)

// Credential validity windows. Both are short-lived, single-purpose,
// and non-renewable.
const (
	uploadWindow   = 10 * time.Minute
	downloadWindow = 10 * time.Minute
)

// DownloadWindowMinutes is the download credential TTL reported to clients.
const DownloadWindowMinutes = 10

// defaultTitle is used when confirm-upload runs without a prior record
// and no title was supplied.
const defaultTitle = "Untitled video"

// ErrStorageNotConfigured is returned when the object-store credentials
// are absent from the environment.
var ErrStorageNotConfigured = errors.New("storage account is not configured")

// ErrMetadataNotConfigured is returned when the metadata-store connection
// string is absent from the environment.
var ErrMetadataNotConfigured = errors.New("metadata store is not configured")

// MetadataStore is the metadata persistence contract the service depends
// on. *Repository implements it.
type MetadataStore interface {
	Upsert(ctx context.Context, v *Video) error
	GetByID(ctx context.Context, id string) (*Video, error)
	ListAll(ctx context.Context) ([]Video, error)
	DeleteByID(ctx context.Context, id string) error
}

// UploadGrant is the result of a successful upload request.
type UploadGrant struct {
	UploadURL string
	FileName  string
}

// DownloadGrant is the result of a successful download-link request.
type DownloadGrant struct {
	ID               string
	DownloadURL      string
	ExpiresInMinutes int
}

// Service implements the video lifecycle operations. It holds no
// per-request state; the only mutable state is the pair of lazily
// initialized external-service handles, constructed once on first use
// under mu. A failed construction is not cached: the next request
// retries it.
type Service struct {
	cfg *config.Config
	now func() time.Time

	mu      sync.Mutex
	meta    MetadataStore
	objects storage.Storage

	newMetadata func(ctx context.Context) (MetadataStore, error)
	newStorage  func(ctx context.Context) (storage.Storage, error)
}

// NewService creates a Service wired to PostgreSQL and MinIO per cfg.
func NewService(cfg *config.Config) *Service {
	s := &Service{cfg: cfg, now: time.Now}
	s.newMetadata = s.connectMetadata
	s.newStorage = s.connectStorage
	return s
}

func (s *Service) connectMetadata(ctx context.Context) (MetadataStore, error) {
	pool, err := db.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(s.cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}
	return NewRepository(pool), nil
}

func (s *Service) connectStorage(ctx context.Context) (storage.Storage, error) {
	return storage.NewMinioStorage(ctx,
		s.cfg.StorageEndpoint,
		s.cfg.StorageAccessKey,
		s.cfg.StorageSecretKey,
		s.cfg.StorageBucket,
		s.cfg.StorageUseSSL,
	)
}

// metadata returns the metadata-store handle, constructing it on first use.
func (s *Service) metadata(ctx context.Context) (MetadataStore, error) {
	if !s.cfg.MetadataConfigured() {
		return nil, ErrMetadataNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta != nil {
		return s.meta, nil
	}
	m, err := s.newMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect metadata store: %w", err)
	}
	s.meta = m
	return m, nil
}

// store returns the object-store handle, constructing it on first use.
func (s *Service) store(ctx context.Context) (storage.Storage, error) {
	if !s.cfg.StorageConfigured() {
		return nil, ErrStorageNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects != nil {
		return s.objects, nil
	}
	st, err := s.newStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	s.objects = st
	return st, nil
}

// RequestUpload issues a write credential for fileName and records a
// provisional metadata entry. Re-requesting an upload for the same
// fileName replaces the prior record and resets its uploadTime.
func (s *Service) RequestUpload(ctx context.Context, title, fileName string) (*UploadGrant, error) {
	st, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}

	uploadURL, err := st.PresignedUpload(ctx, fileName, uploadWindow)
	if err != nil {
		return nil, err
	}

	v := &Video{
		ID:         fileName,
		Title:      title,
		UploadTime: s.now().UTC(),
		Status:     StatusPending,
	}
	if err := meta.Upsert(ctx, v); err != nil {
		return nil, err
	}

	return &UploadGrant{UploadURL: uploadURL, FileName: fileName}, nil
}

// ConfirmUpload marks the record for key as uploaded, merging with any
// existing record: uploadTime and title survive unless a new title is
// supplied; with no prior record, defaults are synthesized. The object's
// actual existence is not verified here — the client's completion claim
// is trusted, and GetDownloadLink re-checks both stores before handing
// out a read credential.
func (s *Service) ConfirmUpload(ctx context.Context, key, title string) (*Video, error) {
	meta, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := meta.GetByID(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	v := &Video{
		ID:          key,
		Title:       defaultTitle,
		UploadTime:  now,
		Status:      StatusUploaded,
		LastUpdated: &now,
	}
	if existing != nil {
		v.Title = existing.Title
		v.UploadTime = existing.UploadTime
	}
	if title != "" {
		v.Title = title
	}

	if err := meta.Upsert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns every metadata record, most recent uploadTime first.
// Records are returned as stored: a listed record may point at an object
// that was never uploaded.
func (s *Service) List(ctx context.Context) ([]Video, error) {
	meta, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.ListAll(ctx)
}

// GetDownloadLink issues a read credential for id. Both stores are
// checked: a record without an object and an object without a record
// are each surfaced as not-found rather than handed a working-looking
// link.
func (s *Service) GetDownloadLink(ctx context.Context, id string) (*DownloadGrant, error) {
	st, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := meta.GetByID(ctx, id); err != nil {
		return nil, err
	}

	exists, err := st.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrObjectNotFound
	}

	downloadURL, err := st.PresignedDownload(ctx, id, downloadWindow)
	if err != nil {
		return nil, err
	}

	return &DownloadGrant{
		ID:               id,
		DownloadURL:      downloadURL,
		ExpiresInMinutes: DownloadWindowMinutes,
	}, nil
}

// Delete removes the object and its metadata record, best-effort and
// non-atomic. The object goes first; a metadata-delete failure after a
// successful object delete is logged and swallowed, since the record
// merely lingers and reads already tolerate that state. Returns whether
// an object actually existed and was deleted.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	st, err := s.store(ctx)
	if err != nil {
		return false, err
	}
	meta, err := s.metadata(ctx)
	if err != nil {
		return false, err
	}

	deleted, err := st.DeleteIfExists(ctx, id)
	if err != nil {
		return false, err
	}

	if err := meta.DeleteByID(ctx, id); err != nil {
		log := logger.Component("video")
		log.Warn().Err(err).Str("id", id).
			Msg("metadata delete failed after object delete")
	}

	return deleted, nil
}
