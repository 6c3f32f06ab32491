// Package objstore is the object-storage collaborator boundary: it issues
// presigned PUT URLs so the admin UI uploads image bytes directly to the
// bucket, and the API only ever persists the resulting object path.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("file too large")
)

const maxUploadBytes = 10 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type Uploader struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

func New(ctx context.Context, bucket string, ttl time.Duration) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &Uploader{presign: s3.NewPresignClient(client), bucket: bucket, ttl: ttl}, nil
}

type UploadTicket struct {
	UploadURL  string `json:"uploadURL"`
	ObjectPath string `json:"objectPath"`
}

// RequestUploadURL validates the file metadata and returns a presigned PUT
// URL plus the object path to persist as image_url.
func (u *Uploader) RequestUploadURL(ctx context.Context, name, contentType string, size int64) (UploadTicket, error) {
	if !allowedTypes[contentType] {
		return UploadTicket{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size > maxUploadBytes {
		return UploadTicket{}, ErrTooLarge
	}
	key := fmt.Sprintf("uploads/%s/%s", uuid.NewString(), sanitizeName(name))
	presigned, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) { o.Expires = u.ttl })
	if err != nil {
		return UploadTicket{}, fmt.Errorf("presign put object: %w", err)
	}
	return UploadTicket{UploadURL: presigned.URL, ObjectPath: "/" + key}, nil
}

func sanitizeName(name string) string {
	name = path.Base(name)
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	if clean == "" || clean == "." {
		return "file"
	}
	return clean
}
