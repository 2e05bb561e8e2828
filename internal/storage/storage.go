// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"time"
)

// Storage is the interface for brokering direct client access to objects.
// The server never moves object bytes itself: uploads and downloads happen
// through presigned URLs handed to the client.
type Storage interface {
	// PresignedUpload returns a URL granting create+write on exactly key,
	// valid for expiry from now.
	PresignedUpload(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignedDownload returns a URL granting read on exactly key,
	// valid for expiry from now.
	PresignedDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteIfExists removes the object at key if present. It reports
	// whether an object actually existed and was deleted; an absent
	// object is success with false, not an error.
	DeleteIfExists(ctx context.Context, key string) (bool, error)
}
