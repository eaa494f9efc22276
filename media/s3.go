package media

import (
	"context"
	"fmt"
	"io"

	"ourphotos/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Store struct {
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	bucket    string
	publicURL string
}

func NewS3Store() (*S3Store, error) {
	cfg := aws.Config{
		Region: aws.String(config.S3_REGION),
	}
	if config.S3_ACCESS_KEY != "" {
		cfg.Credentials = credentials.NewStaticCredentials(config.S3_ACCESS_KEY, config.S3_SECRET_KEY, "")
	}
	if config.S3_ENDPOINT != "" {
		cfg.Endpoint = aws.String(config.S3_ENDPOINT)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, err
	}
	client := s3.New(sess)
	publicURL := config.S3_PUBLIC_URL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3_BUCKET, config.S3_REGION)
	}
	return &S3Store{
		s3Client:  client,
		uploader:  s3manager.NewUploaderWithClient(client),
		bucket:    config.S3_BUCKET,
		publicURL: publicURL,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      &s.bucket,
		Key:         aws.String(objectName),
		ContentType: &contentType,
		Body:        reader,
	})
	if err != nil {
		return "", err
	}
	return s.publicURL + "/" + objectName, nil
}

func (s *S3Store) Delete(ctx context.Context, objectName string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(objectName),
	})
	return err
}
