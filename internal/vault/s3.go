package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jt-go/internal/config"
	"jt-go/internal/jt"
)

// Environment variables that override the default AWS credential chain.
// Useful for S3-compatible stores that hand out their own key pairs.
const (
	envAccessKeyID     = "JT_S3_ACCESS_KEY_ID"
	envSecretAccessKey = "JT_S3_SECRET_ACCESS_KEY"
)

const s3Timeout = 5 * time.Minute

// S3Vault stores snapshots as objects in an S3 bucket:
//
//	<prefix>/<hostID>/<name>          (encrypted snapshot)
//	<prefix>/<hostID>/<name>.version  (decimal version)
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

var _ jt.Vault = (*S3Vault)(nil)

// NewS3Vault builds an S3 client from cfg. Credentials come from
// JT_S3_ACCESS_KEY_ID/JT_S3_SECRET_ACCESS_KEY when both are set, otherwise
// from the standard AWS chain.
func NewS3Vault(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if id, secret := os.Getenv(envAccessKeyID), os.Getenv(envSecretAccessKey); id != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(id, secret, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Vault{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   strings.Trim(cfg.S3Prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (v *S3Vault) key(hostID, name string) string {
	return path.Join(v.prefix, hostID, name)
}

// PutSnapshot uploads the snapshot with the multipart uploader, then writes
// the version object.
func (v *S3Vault) PutSnapshot(hostID, name string, r io.Reader, size int64, version int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()

	counted := &countingReader{r: r}
	key := v.key(hostID, name)
	if _, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
		Body:   counted,
	}); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	if counted.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counted.n)
	}

	versionData := []byte(strconv.FormatInt(version, 10))
	if _, err := v.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(v.bucket),
		Key:           aws.String(key + ".version"),
		Body:          bytes.NewReader(versionData),
		ContentLength: aws.Int64(int64(len(versionData))),
	}); err != nil {
		return fmt.Errorf("writing version for %s: %w", key, err)
	}
	return nil
}

// GetSnapshot streams the snapshot object to w.
func (v *S3Vault) GetSnapshot(hostID, name string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()

	key := v.key(hostID, name)
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("%w: %s/%s", jt.ErrSnapshotNotFound, hostID, name)
		}
		return fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	return nil
}

// GetSnapshotVersion returns the stored version, or 0 if the version object is missing.
func (v *S3Vault) GetSnapshotVersion(hostID, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(hostID, name) + ".version"),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return 0, fmt.Errorf("reading version object: %w", err)
	}
	return parseVersion(data)
}

// ValidateSetup checks that the bucket exists and the credentials can reach it.
func (v *S3Vault) ValidateSetup() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := v.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(v.bucket)}); err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func parseVersion(data []byte) (int64, error) {
	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}
