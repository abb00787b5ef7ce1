package media

import (
	"context" // Context for delegate calls
	"io"      // File streams

	"github.com/cloudinary/cloudinary-go/v2"              // Cloudinary SDK
	"github.com/cloudinary/cloudinary-go/v2/api/uploader" // Upload/destroy operations
	"github.com/google/uuid"                              // Random public IDs
)

// Cloudinary is the production Store backed by the Cloudinary service
type Cloudinary struct {
	cld *cloudinary.Cloudinary // Configured SDK client
}

// NewCloudinary builds a Store from Cloudinary credentials
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err // Invalid credentials or configuration
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload stores a blob and returns its canonical URL and delegate reference
func (s *Cloudinary) Upload(ctx context.Context, file io.Reader, folder string, kind Kind) (*UploadResult, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,           // Namespaced folder
		PublicID:     uuid.NewString(), // Random reference, folder-qualified by the service
		ResourceType: string(kind),     // image, raw or auto
	})
	if err != nil {
		return nil, err // Upload failure aborts the caller's operation
	}
	return &UploadResult{
		URL:      res.SecureURL, // Canonical HTTPS URL
		PublicID: res.PublicID,  // Folder-qualified reference
	}, nil
}

// Delete removes a previously stored blob by its delegate reference
func (s *Cloudinary) Delete(ctx context.Context, publicID string, kind Kind) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,     // Delegate reference
		ResourceType: string(kind), // Must match the kind used at upload
	})
	return err
}
