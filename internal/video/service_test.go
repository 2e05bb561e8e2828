package video

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipdeck/video-api/internal/config"
	"github.com/clipdeck/video-api/internal/storage"
)

// fakeMetadata is an in-memory MetadataStore mirroring the repository
// contract, including the uploadTime-descending list order.
type fakeMetadata struct {
	records map[string]Video

	upsertErr error
	deleteErr error
	listErr   error
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{records: map[string]Video{}}
}

func (f *fakeMetadata) Upsert(_ context.Context, v *Video) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[v.ID] = *v
	return nil
}

func (f *fakeMetadata) GetByID(_ context.Context, id string) (*Video, error) {
	v, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (f *fakeMetadata) ListAll(_ context.Context) ([]Video, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Video, 0, len(f.records))
	for _, v := range f.records {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadTime.Equal(out[j].UploadTime) {
			return out[i].UploadTime.After(out[j].UploadTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeMetadata) DeleteByID(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, id)
	return nil
}

// fakeStorage is an in-memory object store.
type fakeStorage struct {
	objects map[string]bool

	presignErr error
	statErr    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]bool{}}
}

func (f *fakeStorage) PresignedUpload(_ context.Context, key string, expiry time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://storage.test/videos/%s?sig=put&exp=%d", key, int(expiry.Minutes())), nil
}

func (f *fakeStorage) PresignedDownload(_ context.Context, key string, expiry time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://storage.test/videos/%s?sig=get&exp=%d", key, int(expiry.Minutes())), nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	if f.statErr != nil {
		return false, f.statErr
	}
	return f.objects[key], nil
}

func (f *fakeStorage) DeleteIfExists(_ context.Context, key string) (bool, error) {
	if f.statErr != nil {
		return false, f.statErr
	}
	existed := f.objects[key]
	delete(f.objects, key)
	return existed, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:      "postgres://test",
		StorageEndpoint:  "localhost:9000",
		StorageAccessKey: "test-access",
		StorageSecretKey: "test-secret",
		StorageBucket:    "videos",
	}
}

func newTestService(meta *fakeMetadata, store *fakeStorage) *Service {
	svc := NewService(testConfig())
	svc.newMetadata = func(context.Context) (MetadataStore, error) { return meta, nil }
	svc.newStorage = func(context.Context) (storage.Storage, error) { return store, nil }
	return svc
}

func TestRequestUploadCreatesPendingRecord(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	grant, err := svc.RequestUpload(ctx, "My vacation", "vacation.mp4")
	require.NoError(t, err)
	assert.Equal(t, "vacation.mp4", grant.FileName)
	assert.Contains(t, grant.UploadURL, "vacation.mp4")
	assert.Contains(t, grant.UploadURL, "exp=10")

	videos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "vacation.mp4", videos[0].ID)
	assert.Equal(t, "My vacation", videos[0].Title)
	assert.Equal(t, StatusPending, videos[0].Status)
	assert.Nil(t, videos[0].LastUpdated)
}

func TestRequestUploadReplacesPriorRecord(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	_, err := svc.RequestUpload(ctx, "v1", "a.mp4")
	require.NoError(t, err)

	second := first.Add(time.Hour)
	svc.now = func() time.Time { return second }
	_, err = svc.RequestUpload(ctx, "v2", "a.mp4")
	require.NoError(t, err)

	v, err := meta.GetByID(ctx, "a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "v2", v.Title)
	assert.Equal(t, second, v.UploadTime)
	assert.Equal(t, StatusPending, v.Status)
}

func TestConfirmUploadWithoutPriorRecord(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	v, err := svc.ConfirmUpload(ctx, "orphan.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, v.Status)
	assert.Equal(t, "Untitled video", v.Title)
	assert.Equal(t, now, v.UploadTime)
	require.NotNil(t, v.LastUpdated)
	assert.Equal(t, now, *v.LastUpdated)
}

func TestConfirmUploadPreservesUploadTimeAndTitle(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	requested := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return requested }
	_, err := svc.RequestUpload(ctx, "Original title", "clip.mp4")
	require.NoError(t, err)

	confirmed := requested.Add(5 * time.Minute)
	svc.now = func() time.Time { return confirmed }

	v, err := svc.ConfirmUpload(ctx, "clip.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, v.Status)
	assert.Equal(t, "Original title", v.Title)
	assert.Equal(t, requested, v.UploadTime)
	require.NotNil(t, v.LastUpdated)
	assert.Equal(t, confirmed, *v.LastUpdated)
}

func TestConfirmUploadOverwritesTitleWhenSupplied(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	_, err := svc.RequestUpload(ctx, "Old title", "clip.mp4")
	require.NoError(t, err)

	v, err := svc.ConfirmUpload(ctx, "clip.mp4", "New title")
	require.NoError(t, err)
	assert.Equal(t, "New title", v.Title)
}

func TestDownloadLinkRequiresBothStores(t *testing.T) {
	meta := newFakeMetadata()
	store := newFakeStorage()
	svc := newTestService(meta, store)
	ctx := context.Background()

	// No metadata record.
	_, err := svc.GetDownloadLink(ctx, "missing.mp4")
	assert.ErrorIs(t, err, ErrNotFound)

	// Record but no object.
	_, err = svc.RequestUpload(ctx, "t", "clip.mp4")
	require.NoError(t, err)
	_, err = svc.GetDownloadLink(ctx, "clip.mp4")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// Both present.
	store.objects["clip.mp4"] = true
	grant, err := svc.GetDownloadLink(ctx, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", grant.ID)
	assert.Contains(t, grant.DownloadURL, "sig=get")
	assert.Equal(t, DownloadWindowMinutes, grant.ExpiresInMinutes)
}

func TestDeleteTwice(t *testing.T) {
	meta := newFakeMetadata()
	store := newFakeStorage()
	svc := newTestService(meta, store)
	ctx := context.Background()

	_, err := svc.RequestUpload(ctx, "t", "clip.mp4")
	require.NoError(t, err)
	store.objects["clip.mp4"] = true

	deleted, err := svc.Delete(ctx, "clip.mp4")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, "clip.mp4")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteSwallowsMetadataFailure(t *testing.T) {
	meta := newFakeMetadata()
	store := newFakeStorage()
	svc := newTestService(meta, store)
	ctx := context.Background()

	store.objects["clip.mp4"] = true
	meta.deleteErr = errors.New("metadata store down")

	deleted, err := svc.Delete(ctx, "clip.mp4")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, store.objects["clip.mp4"])
}

func TestRoundTrip(t *testing.T) {
	meta := newFakeMetadata()
	store := newFakeStorage()
	svc := newTestService(meta, store)
	ctx := context.Background()

	_, err := svc.RequestUpload(ctx, "T", "f.mp4")
	require.NoError(t, err)

	// Simulate the client's direct upload to storage.
	store.objects["f.mp4"] = true

	_, err = svc.ConfirmUpload(ctx, "f.mp4", "")
	require.NoError(t, err)

	grant, err := svc.GetDownloadLink(ctx, "f.mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.DownloadURL)

	_, err = svc.Delete(ctx, "f.mp4")
	require.NoError(t, err)

	_, err = svc.GetDownloadLink(ctx, "f.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first.mp4", "second.mp4", "third.mp4"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, err := svc.RequestUpload(ctx, id, id)
		require.NoError(t, err)
	}

	videos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "third.mp4", videos[0].ID)
	assert.Equal(t, "second.mp4", videos[1].ID)
	assert.Equal(t, "first.mp4", videos[2].ID)
}

func TestMissingMetadataConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = ""
	svc := NewService(cfg)
	svc.newStorage = func(context.Context) (storage.Storage, error) { return newFakeStorage(), nil }
	ctx := context.Background()

	_, err := svc.RequestUpload(ctx, "t", "a.mp4")
	assert.ErrorIs(t, err, ErrMetadataNotConfigured)

	_, err = svc.ConfirmUpload(ctx, "a.mp4", "")
	assert.ErrorIs(t, err, ErrMetadataNotConfigured)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, ErrMetadataNotConfigured)

	_, err = svc.GetDownloadLink(ctx, "a.mp4")
	assert.ErrorIs(t, err, ErrMetadataNotConfigured)

	_, err = svc.Delete(ctx, "a.mp4")
	assert.ErrorIs(t, err, ErrMetadataNotConfigured)
}

func TestMissingStorageConfig(t *testing.T) {
	cfg := testConfig()
	cfg.StorageAccessKey = ""
	svc := NewService(cfg)
	svc.newMetadata = func(context.Context) (MetadataStore, error) { return newFakeMetadata(), nil }
	ctx := context.Background()

	_, err := svc.RequestUpload(ctx, "t", "a.mp4")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = svc.GetDownloadLink(ctx, "a.mp4")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = svc.Delete(ctx, "a.mp4")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func TestHandlesConstructedOnce(t *testing.T) {
	meta := newFakeMetadata()
	svc := newTestService(meta, newFakeStorage())
	ctx := context.Background()

	var metaCalls, storeCalls int
	svc.newMetadata = func(context.Context) (MetadataStore, error) {
		metaCalls++
		return meta, nil
	}
	svc.newStorage = func(context.Context) (storage.Storage, error) {
		storeCalls++
		return newFakeStorage(), nil
	}

	for i := 0; i < 3; i++ {
		_, err := svc.RequestUpload(ctx, "t", "a.mp4")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, metaCalls)
	assert.Equal(t, 1, storeCalls)
}

func TestFailedHandleConstructionIsRetried(t *testing.T) {
	svc := newTestService(newFakeMetadata(), newFakeStorage())
	ctx := context.Background()

	attempts := 0
	svc.newMetadata = func(context.Context) (MetadataStore, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		return newFakeMetadata(), nil
	}

	_, err := svc.List(ctx)
	require.Error(t, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDependentServiceErrorPropagates(t *testing.T) {
	meta := newFakeMetadata()
	store := newFakeStorage()
	svc := newTestService(meta, store)
	ctx := context.Background()

	store.presignErr = errors.New("signing failed")
	_, err := svc.RequestUpload(ctx, "t", "a.mp4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageNotConfigured)

	// The provisional record must not have been written.
	_, err = meta.GetByID(ctx, "a.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}
