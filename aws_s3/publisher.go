package aws_s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/sharedcode/lrc"
)

const largeObjectMinSize = 10 * 1024 * 1024

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type bucketMaker interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Publisher uploads artifacts under `<prefix>/<run id>/<name>` in a bucket.
type Publisher struct {
	bucket   string
	prefix   string
	region   string
	uploader uploader
	buckets  bucketMaker
}

// NewPublisher connects to the endpoint in config and returns a Publisher for its bucket.
func NewPublisher(config lrc.S3Config) (*Publisher, error) {
	if config.Bucket == "" {
		return nil, lrc.Errorf(lrc.ConfigurationConflict, "s3 publishing requires a bucket")
	}
	client := Connect(config)
	return &Publisher{
		bucket: config.Bucket,
		prefix: strings.Trim(config.Prefix, "/"),
		region: config.Region,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = largeObjectMinSize
		}),
		buckets: client,
	}, nil
}

// NewRunID returns a fresh identifier grouping the objects of one run.
func NewRunID() string {
	return uuid.NewString()
}

// Key returns the object key of name within run.
func (p *Publisher) Key(runID, name string) string {
	if p.prefix == "" {
		return path.Join(runID, name)
	}
	return path.Join(p.prefix, runID, name)
}

// EnsureBucket creates the bucket, an already owned bucket is not an error.
func (p *Publisher) EnsureBucket(ctx context.Context) error {
	in := &s3.CreateBucketInput{
		Bucket: aws.String(p.bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if p.region != "" && p.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(p.region),
		}
	}
	_, err := p.buckets.CreateBucket(ctx, in)
	if err == nil {
		return nil
	}
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return nil
	}
	return fmt.Errorf("couldn't create bucket %s in Region %s, details: %w", p.bucket, p.region, err)
}

// Publish uploads data as name within run and returns its key. Transient failures are retried.
func (p *Publisher) Publish(ctx context.Context, runID, name, contentType string, data []byte) (string, error) {
	if runID == "" {
		runID = NewRunID()
	}
	key := p.Key(runID, name)
	err := lrc.Retry(ctx, func(ctx context.Context) error {
		_, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}, nil)
	if err != nil {
		return "", lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("uploading s3://%s/%s failed, details: %w", p.bucket, key, err), name)
	}
	log.Info("published", "bucket", p.bucket, "key", key, "size", len(data))
	return key, nil
}
