// Package storage archives committed spec revisions to S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/log"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

var _ core.RevisionArchive = (*minioArchive)(nil)

// minioArchive stores every committed spec revision as an immutable object
// keyed by pod identity and commit SHA.
type minioArchive struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOArchive creates a revision archive backed by S3-compatible storage
// and verifies the archive bucket before returning.
func NewMinIOArchive(ctx context.Context, opts *options.S3Options) (core.RevisionArchive, error) {
	minioOpts := &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	}

	client, err := minio.New(opts.Endpoint, minioOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	a := &minioArchive{
		client:     client,
		bucketName: opts.BucketName,
	}
	if err := a.checkBucket(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// checkBucket verifies the archive bucket exists, creating it when missing.
func (a *minioArchive) checkBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", a.bucketName)
		if err := a.client.MakeBucket(ctx, a.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Archive stores the committed document under <customer>/<environment>/<sha>.yml.
func (a *minioArchive) Archive(ctx context.Context, id model.PodIdentity, commitSHA string, content []byte) error {
	key := path.Join(id.Customer, id.Environment, commitSHA+".yml")

	_, err := a.client.PutObject(ctx, a.bucketName, key,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/yaml"})
	if err != nil {
		return fmt.Errorf("failed to archive revision %s: %w", key, err)
	}

	log.Debug("Spec revision archived", "bucket", a.bucketName, "key", key)
	return nil
}
