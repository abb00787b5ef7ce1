package media

import (
	"context" // Context for delegate calls
	"io"      // File streams
	"strings" // URL parsing

	"github.com/sirupsen/logrus" // Logging library
)

// Upload folders, all under the application namespace
const (
	FolderPosts     = "cryptohub/posts"     // Post images
	FolderAvatars   = "cryptohub/avatars"   // Profile avatars
	FolderResources = "cryptohub/resources" // Resource library files
)

// Kind selects how the delegate stores and serves a blob
type Kind string

const (
	KindImage Kind = "image" // Images, delegate may transform
	KindRaw   Kind = "raw"   // Opaque files such as PDFs
	KindAuto  Kind = "auto"  // Delegate decides
)

// UploadResult is the delegate's acknowledgement of a stored blob
type UploadResult struct {
	URL      string // Canonical URL for the stored blob
	PublicID string // Delegate reference used for later deletion
}

// Store is the external blob storage contract. Uploads must succeed before
// any record referencing the blob is persisted; deletes are best-effort.
type Store interface {
	Upload(ctx context.Context, file io.Reader, folder string, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// PublicIDFromURL recovers the delegate reference embedded in a stored URL.
// Returns "" when the URL does not point into the application namespace.
func PublicIDFromURL(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	for i, p := range parts {
		if p == "cryptohub" {
			id := strings.Join(parts[i:], "/")
			if dot := strings.LastIndex(id, "."); dot > -1 {
				id = id[:dot] // Strip file extension
			}
			return id
		}
	}
	return ""
}

// DeleteByURL removes the blob behind a stored URL. Failures are logged and
// swallowed: a delegate delete must never fail the caller's request.
func DeleteByURL(ctx context.Context, s Store, rawURL string, kind Kind) {
	publicID := PublicIDFromURL(rawURL)
	if publicID == "" {
		return // Not one of ours (external URL or empty)
	}
	logrus.WithField("public_id", publicID).Info("Deleting blob from media store")
	if err := s.Delete(ctx, publicID, kind); err != nil {
		// Log the orphaned blob rather than propagating the failure
		logrus.WithFields(logrus.Fields{
			"public_id": publicID,    // Delegate reference
			"kind":      string(kind), // Blob kind
			"error":     err.Error(), // Error message
		}).Warn("Failed to delete blob from media store")
	}
}
