package evidence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// Upload is a presigned PUT plus the reference to submit as proof once it succeeds
type Upload struct {
	UploadURL      string    `json:"upload_url"`
	Method         string    `json:"method"`
	ContentType    string    `json:"content_type"`
	ProofReference string    `json:"proof_reference"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// View is a presigned GET for a stored proof
type View struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues short-lived URLs for evidence objects
type Service interface {
	UploadURL(ctx context.Context, participantID, questID, contentType string) (*Upload, error)
	ViewURL(ctx context.Context, reference string) (*View, error)
}

type service struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
	now       func() time.Time
}

// NewService creates an evidence service. A nil presigner or empty bucket
// disables it and every call returns domain.ErrEvidenceDisabled.
func NewService(presigner Presigner, bucket string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &service{
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *service) enabled() bool {
	return s.presigner != nil && s.bucket != ""
}

func (s *service) UploadURL(ctx context.Context, participantID, questID, contentType string) (*Upload, error) {
	if !s.enabled() {
		return nil, domain.ErrEvidenceDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := AllowedContentTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnsupportedContentType, contentType)
	}

	key := fmt.Sprintf("%s%s/%s/%s", KeyPrefix, participantID, questID, uuid.New().String())
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPresignFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgUploadURLIssued, "participant_id", participantID, "quest_id", questID, "key", key)
	return &Upload{
		UploadURL:      req.URL,
		Method:         req.Method,
		ContentType:    contentType,
		ProofReference: referenceScheme + s.bucket + "/" + key,
		ExpiresAt:      s.now().Add(s.ttl),
	}, nil
}

func (s *service) ViewURL(ctx context.Context, reference string) (*View, error) {
	if !s.enabled() {
		return nil, domain.ErrEvidenceDisabled
	}
	key, err := s.parseReference(reference)
	if err != nil {
		return nil, err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPresignFailed, err)
	}

	logger.FromContext(ctx).Debug(LogMsgViewURLIssued, "key", key)
	return &View{URL: req.URL, ExpiresAt: s.now().Add(s.ttl)}, nil
}

// parseReference accepts only references this service issued for its own bucket
func (s *service) parseReference(reference string) (string, error) {
	rest, ok := strings.CutPrefix(reference, referenceScheme)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidReference)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket != s.bucket || !strings.HasPrefix(key, KeyPrefix) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidReference)
	}
	return key, nil
}
