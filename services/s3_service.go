package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"petmatch_server/logging"
	"petmatch_server/models"
)

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3PhotoSigner issues short-lived read URLs for candidate photos
type S3PhotoSigner struct {
	Presigner objectPresigner
	Bucket    string
	TTL       time.Duration
}

// NewS3PhotoSigner builds a signer from the default AWS credential chain
func NewS3PhotoSigner(ctx context.Context, region, bucket string, ttl time.Duration) (*S3PhotoSigner, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3PhotoSigner{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
		TTL:       ttl,
	}, nil
}

// SignPhotoURL generates a presigned URL for reading a photo
func (s *S3PhotoSigner) SignPhotoURL(ctx context.Context, key string) (string, error) {
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.TTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// RenderCard attaches photo URLs to a candidate. Photos that cannot be signed are left out.
// A nil signer renders no photos.
func RenderCard(ctx context.Context, signer PhotoSigner, c *models.Candidate) *models.CandidateCard {
	card := &models.CandidateCard{Candidate: *c, Photos: []string{}}
	card.PhotoKeys = nil
	if signer == nil {
		return card
	}
	for _, key := range c.PhotoKeys {
		url, err := signer.SignPhotoURL(ctx, key)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("candidate_id", c.ID).Msg("skipping photo")
			continue
		}
		card.Photos = append(card.Photos, url)
	}
	return card
}
