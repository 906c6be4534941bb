package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"

	"travel-booking/internal/config"
)

// S3 stores buckets in Amazon S3 or any S3 compatible object store.
type S3 struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	region   string
	baseURL  string
}

func NewS3(cfg config.Storage) (*S3, error) {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.S3.Region).
		WithS3ForcePathStyle(cfg.S3.ForcePathStyle)
	if cfg.S3.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.S3.Endpoint)
	}
	if cfg.S3.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.S3.AccessKey, cfg.S3.SecretKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create s3 session")
	}
	client := s3.New(sess)

	baseURL := cfg.PublicURL
	if baseURL == "" && cfg.S3.Endpoint != "" {
		baseURL = cfg.S3.Endpoint
	}
	return &S3{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		region:   cfg.S3.Region,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *S3) Upload(ctx context.Context, bucket, name string, img *Image) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(name),
		Body:         bytes.NewReader(img.Data),
		ContentType:  aws.String(img.ContentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	return errors.Wrapf(err, "upload %s/%s", bucket, name)
}

// PublicURL uses the configured base URL in path style, or the AWS virtual
// hosted style URL when none is set.
func (s *S3) PublicURL(bucket, name string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + bucket + "/" + name
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, name)
}

func (s *S3) Delete(ctx context.Context, bucket, name string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	return errors.Wrapf(err, "delete %s/%s", bucket, name)
}

func (s *S3) List(ctx context.Context, bucket string) ([]Object, error) {
	var objects []Object
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				objects = append(objects, Object{
					Name:    aws.StringValue(obj.Key),
					ModTime: aws.TimeValue(obj.LastModified),
				})
			}
			return true
		})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", bucket)
	}
	return objects, nil
}
