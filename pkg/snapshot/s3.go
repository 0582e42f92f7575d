package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/reactor/pkg/reconciler"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3 object metadata keys.
const (
	metaReconcilerID = "reconciler-id"
	metaTaken        = "taken"
)

// S3Store stores snapshots as JSON objects in AWS S3.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := snapshot.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "snapshots/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a new S3 snapshot store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for snapshots (e.g., "snapshots/dev/")
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, snap *reconciler.TreeSnapshot) (string, error) {
	data, err := encode(snap)
	if err != nil {
		return "", err
	}
	id := newID()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			metaReconcilerID: snap.ReconcilerID,
			metaTaken:        snap.Taken.UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return id, nil
}

// Load implements Store.
func (s *S3Store) Load(ctx context.Context, id string) (*reconciler.TreeSnapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 download failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// List implements Store. Taken comes from object metadata when present and
// from the object's modification time otherwise.
func (s *S3Store) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list failed: %w", err)
		}
		for _, obj := range page.Contents {
			id, ok := s.idOf(aws.ToString(obj.Key))
			if !ok {
				continue
			}
			info := Info{
				ID:    id,
				Taken: aws.ToTime(obj.LastModified),
				Size:  aws.ToInt64(obj.Size),
			}
			s.fillMetadata(ctx, &info)
			infos = append(infos, info)
		}
	}
	sortInfos(infos)
	return infos, nil
}

// fillMetadata reads the metadata Save attached to the object. Objects
// written by other tools keep the listing values.
func (s *S3Store) fillMetadata(ctx context.Context, info *Info) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(info.ID)),
	})
	if err != nil {
		return
	}
	info.ReconcilerID = head.Metadata[metaReconcilerID]
	if taken, err := time.Parse(time.RFC3339Nano, head.Metadata[metaTaken]); err == nil {
		info.Taken = taken
	}
}

// Delete implements Store.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return ErrNotFound
		}
		return fmt.Errorf("s3 head failed: %w", err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + diskExt
}

func (s *S3Store) idOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.prefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, diskExt)
	if !ok || validID(id) != nil {
		return "", false
	}
	return id, true
}
