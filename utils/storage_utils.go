package utils

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Archiver writes raw webhook payloads to an S3-compatible bucket so
// provider events can be replayed independently of the database.
type S3Archiver struct {
	client *s3.S3
	bucket string
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func NewS3Archiver(cfg S3Config) (*S3Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey, cfg.SecretKey, "",
		),
	})
	if err != nil {
		return nil, err
	}
	return &S3Archiver{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

func (a *S3Archiver) Archive(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String("application/json"),
	})
	return err
}
