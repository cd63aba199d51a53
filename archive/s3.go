package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsbrief/common"
	"newsbrief/types"
)

// objectStore is the part of common.S3 the sink needs
type objectStore interface {
	PutJSON(ctx context.Context, bucket, key string, v any) error
	GetJSON(ctx context.Context, bucket, key string, v any) error
}

const uploadTimeout = 30 * time.Second

// S3Sink stores each brief as JSON under <prefix>briefs/<id>.json
type S3Sink struct {
	store  objectStore
	bucket string
	prefix string
}

var (
	_ Sink   = (*S3Sink)(nil)
	_ Loader = (*S3Sink)(nil)
)

func NewS3Sink(store objectStore, bucket, prefix string) *S3Sink {
	return &S3Sink{store: store, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) key(id string) string {
	return s.prefix + "briefs/" + id + ".json"
}

func (s *S3Sink) Publish(ctx context.Context, b *types.Brief) error {
	if b == nil {
		return nil
	}
	uctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if err := s.store.PutJSON(uctx, s.bucket, s.key(b.ID), b); err != nil {
		return fmt.Errorf("s3 archive: %w", err)
	}
	return nil
}

func (s *S3Sink) Load(ctx context.Context, id string) (*types.Brief, error) {
	var b types.Brief
	if err := s.store.GetJSON(ctx, s.bucket, s.key(id), &b); err != nil {
		if errors.Is(err, common.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("s3 archive: %w", err)
	}
	return &b, nil
}

func (s *S3Sink) Close() error { return nil }
