package evidence

import "time"

// DefaultURLTTL is how long a presigned URL stays valid
const DefaultURLTTL = 15 * time.Minute

// KeyPrefix is the object key prefix for every evidence upload
const KeyPrefix = "evidence/"

const referenceScheme = "s3://"

// AllowedContentTypes lists the media types accepted as evidence
var AllowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/heic":      {},
	"video/mp4":       {},
	"application/pdf": {},
}

// Log messages
const (
	LogMsgUploadURLIssued = "Evidence upload URL issued"
	LogMsgViewURLIssued   = "Evidence view URL issued"
)

// Error messages
const (
	ErrMsgUnsupportedContentType = "unsupported evidence content type"
	ErrMsgInvalidReference       = "invalid evidence reference"
	ErrMsgPresignFailed          = "failed to presign evidence URL: %w"
	ErrMsgLoadConfigFailed       = "failed to load object storage config: %w"
)
