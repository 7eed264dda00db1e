package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// Upload failure taxonomy. Callers surface these to the presentation
// layer without retrying.
var (
	ErrUploadFailed      = errors.New("upload failed")
	ErrDownloadURLFailed = errors.New("failed to get download url")
)

// Blob key prefixes, shared with the mobile clients
const (
	profilePicturePrefix = "images/"
	messagePhotoPrefix   = "message_images/"
	messageVideoPrefix   = "message_videos/"
)

// S3Client wraps the AWS S3 client for S3/R2/MinIO compatible storage
type S3Client struct {
	client *s3.Client
	bucket string
	cdnURL string // optional CDN base URL used for public download URLs
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // e.g. https://xxx.r2.cloudflarestorage.com
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	ForcePathStyle  bool // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return &S3Client{
		client: client,
		bucket: cfg.Bucket,
		cdnURL: strings.TrimRight(cfg.CDNURL, "/"),
	}, nil
}

// upload puts an object and returns its public download URL. The URL is
// stored verbatim as message content for photo/video messages, so it
// must be stable.
func (c *S3Client) upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		pkglogger.GetLogger().Error().Err(err).Str("key", key).Msg("blob upload failed")
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, key)
	}

	url, err := c.DownloadURL(key)
	if err != nil {
		return "", err
	}
	return url, nil
}

// UploadProfilePicture stores a user's profile picture as
// images/<safeEmail>_profile_picture.png and returns its public URL.
func (c *S3Client) UploadProfilePicture(ctx context.Context, safeEmail string, body io.Reader) (string, error) {
	key := profilePicturePrefix + ProfilePictureFileName(safeEmail)
	return c.upload(ctx, key, body, "image/png")
}

// UploadMessagePhoto stores a photo sent in a conversation as
// message_images/<fileName> and returns its public URL.
func (c *S3Client) UploadMessagePhoto(ctx context.Context, fileName string, body io.Reader) (string, error) {
	if !strings.HasSuffix(fileName, ".png") {
		fileName += ".png"
	}
	return c.upload(ctx, messagePhotoPrefix+fileName, body, "image/png")
}

// UploadMessageVideo stores a video sent in a conversation as
// message_videos/<fileName> and returns its public URL.
func (c *S3Client) UploadMessageVideo(ctx context.Context, fileName string, body io.Reader) (string, error) {
	if !strings.HasSuffix(fileName, ".mov") {
		fileName += ".mov"
	}
	return c.upload(ctx, messageVideoPrefix+fileName, body, "video/quicktime")
}

// DownloadURL returns the public URL for a stored object key
func (c *S3Client) DownloadURL(key string) (string, error) {
	if key == "" {
		return "", ErrDownloadURLFailed
	}
	if c.cdnURL != "" {
		return c.cdnURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key), nil
}

// ProfilePictureFileName returns the canonical profile picture file name
// for a safe-identity.
func ProfilePictureFileName(safeEmail string) string {
	return safeEmail + "_profile_picture.png"
}
