package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"petmatch_server/models"
)

type fakePresigner struct {
	bucket  string
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.bucket = *in.Bucket
	f.expires = opts.Expires
	if strings.HasPrefix(*in.Key, "broken/") {
		return nil, errors.New("presign failed")
	}
	return &v4.PresignedHTTPRequest{URL: "https://photos.example/" + *in.Key + "?sig=1"}, nil
}

func TestSignPhotoURL(t *testing.T) {
	p := &fakePresigner{}
	signer := &S3PhotoSigner{Presigner: p, Bucket: "pet-photos", TTL: 2 * time.Minute}

	url, err := signer.SignPhotoURL(context.Background(), "pets/c1.jpg")
	if err != nil {
		t.Fatalf("SignPhotoURL: %v", err)
	}
	if url != "https://photos.example/pets/c1.jpg?sig=1" {
		t.Errorf("url = %q", url)
	}
	if p.bucket != "pet-photos" || p.expires != 2*time.Minute {
		t.Errorf("bucket = %q, expires = %v", p.bucket, p.expires)
	}

	if _, err := signer.SignPhotoURL(context.Background(), "broken/x.jpg"); err == nil {
		t.Error("expected presign error")
	}
}

func TestRenderCard(t *testing.T) {
	c := &models.Candidate{ID: "c1", Name: "Luna", PhotoKeys: []string{"pets/a.jpg", "broken/b.jpg", "pets/c.jpg"}}
	signer := &S3PhotoSigner{Presigner: &fakePresigner{}, Bucket: "b", TTL: time.Minute}

	card := RenderCard(context.Background(), signer, c)
	if len(card.Photos) != 2 {
		t.Fatalf("photos = %v", card.Photos)
	}
	if card.PhotoKeys != nil {
		t.Errorf("card leaks raw photo keys: %v", card.PhotoKeys)
	}
	if len(c.PhotoKeys) != 3 {
		t.Errorf("source candidate modified: %v", c.PhotoKeys)
	}
	if card.Name != "Luna" {
		t.Errorf("name = %q", card.Name)
	}

	bare := RenderCard(context.Background(), nil, c)
	if bare.Photos == nil || len(bare.Photos) != 0 {
		t.Errorf("nil signer photos = %v", bare.Photos)
	}
}
