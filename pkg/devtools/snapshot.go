package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/weave-ui/weave/pkg/component"
)

// Snapshot is the state of an App at one instant.
type Snapshot struct {
	Taken      time.Time       `json:"taken"`
	HTML       string          `json:"html"`
	Components []ComponentInfo `json:"components"`
}

// Take captures app. It must run on the App loop.
func Take(app *component.App) *Snapshot {
	return &Snapshot{
		Taken:      time.Now().UTC(),
		HTML:       app.Document().HTML(),
		Components: Components(app),
	}
}

// Name returns the default object name for s.
func (s *Snapshot) Name() string {
	return "weave-snapshot-" + s.Taken.Format("20060102T150405.000Z") + ".json"
}

// Encode returns s as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Sink stores encoded snapshots.
type Sink interface {
	// Write stores data under name and returns where it was written.
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// Save encodes s and writes it to sink under s.Name().
func Save(ctx context.Context, sink Sink, s *Snapshot) (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return sink.Write(ctx, s.Name(), data)
}

// FileSink writes snapshots into a directory.
type FileSink struct {
	Dir string
}

// Write implements Sink.
func (f FileSink) Write(_ context.Context, name string, data []byte) (string, error) {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	p := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return p, nil
}

// PutObjectAPI is the part of the S3 client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads snapshots to an S3 bucket.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a sink writing to bucket under prefix.
func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client creates an S3 client for region using the AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN environment variables.
func NewS3Client(region string) *s3.Client {
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		c := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}
		if c.AccessKeyID == "" || c.SecretAccessKey == "" {
			return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return c, nil
	})
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	})
}

// Write implements Sink.
func (s *S3Sink) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.prefix, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
