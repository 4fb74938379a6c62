package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/session"
)

// Indirections for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignExpiry = 15 * time.Minute

// S3Config holds the settings needed to reach the bucket. BaseEndpoint
// supports MinIO and other S3-compatible stores.
type S3Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string
}

// S3Backend implements Backend over an S3-compatible object store. Keys
// are laid out as <username>/<path>.
type S3Backend struct {
	bucket  string
	sess    *session.Session
	client  *s3.Client
	presign *s3.PresignClient
}

func NewS3Backend(ctx context.Context, cfg S3Config, sess *session.Session) (*S3Backend, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Backend{
		bucket:  cfg.Bucket,
		sess:    sess,
		client:  client,
		presign: newS3PresignClient(client),
	}, nil
}

// Key maps a namespaced path onto an object key. An empty username
// means the session's own namespace.
func Key(username, own, path string) string {
	ns := username
	if ns == "" {
		ns = own
	}
	return ns + "/" + path
}

func (b *S3Backend) PutFile(ctx context.Context, path string, data []byte) error {
	key := Key("", b.sess.Username, path)
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", path, err)
	}
	return nil
}

func (b *S3Backend) GetFile(ctx context.Context, path string, opts GetOptions) ([]byte, error) {
	key := Key(opts.Username, b.sess.Username, path)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %q: %w", path, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get %q: %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return data, nil
}

func (b *S3Backend) GetFileURL(ctx context.Context, path string, opts GetOptions) (string, error) {
	key := Key(opts.Username, b.sess.Username, path)
	req, err := presignGetObject(b.presign, ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presigning %q: %w", path, err)
	}
	return req.URL, nil
}

func (b *S3Backend) DeleteFile(ctx context.Context, path string) error {
	key := Key("", b.sess.Username, path)
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

func (b *S3Backend) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := Key("", b.sess.Username, prefix)

	var paths []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: &b.bucket,
		Prefix: &keyPrefix,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			paths = append(paths, strings.TrimPrefix(*obj.Key, b.sess.Username+"/"))
		}
	}
	return paths, nil
}
