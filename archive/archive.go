// Package archive publishes completed briefs to optional external stores.
package archive

import (
	"context"
	"errors"
	"log"
	"strings"

	"newsbrief/common"
	"newsbrief/config"
	"newsbrief/types"
)

// ErrNotFound is returned by Loader when no brief has the given ID
var ErrNotFound = errors.New("brief not found")

// Sink receives completed briefs
type Sink interface {
	Publish(ctx context.Context, b *types.Brief) error
	Close() error
}

// Loader reads archived briefs back by ID
type Loader interface {
	Load(ctx context.Context, id string) (*types.Brief, error)
}

// Fanout publishes to every sink and joins their errors
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, b *types.Brief) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, s := range f {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the sinks enabled in cfg. A sink that fails to start is
// logged and skipped. The returned S3Sink is nil when S3 is not configured.
func FromConfig(ctx context.Context, cfg *config.Config) (Fanout, *S3Sink) {
	var sinks Fanout
	var s3Sink *S3Sink

	if cfg.S3.Bucket != "" {
		client, err := common.NewS3(ctx, common.S3Config{
			Region:       cfg.S3.Region,
			Profile:      cfg.S3.Profile,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			log.Printf("Warning: failed to init S3 client: %v (archive disabled)", err)
		} else {
			s3Sink = NewS3Sink(client, cfg.S3.Bucket, cfg.S3.Prefix)
			sinks = append(sinks, s3Sink)
			log.Printf("🗄️  Archiving briefs to s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
		}
	} else {
		log.Printf("S3 not configured; skipping archive")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Printf("Warning: failed to connect to Kafka at %s: %v (events disabled)", strings.Join(cfg.Kafka.Brokers, ","), err)
		} else {
			sinks = append(sinks, producer)
			log.Printf("📣 Publishing briefs to Kafka topic %s", cfg.Kafka.Topic)
		}
	}

	return sinks, s3Sink
}
