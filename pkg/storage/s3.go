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
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/config"
)

type s3Storage struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	cfg      config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) (*s3Storage, error) {
	session, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{
		client:   s3.New(session),
		uploader: s3manager.NewUploader(session),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) generateUploadURL(object *UploadObject) *UploadResponse {
	fileName := fmt.Sprintf("%s/%s-%s", object.Prefix, uuid.NewString(), object.FileName)

	return &UploadResponse{
		Url:      fmt.Sprintf("%s/%s/%s", s.cfg.PublicEndpoint, object.Bucket, fileName),
		FileName: fileName,
	}
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	if object.Bucket == "" {
		object.Bucket = s.cfg.Bucket
	}

	resp := s.generateUploadURL(object)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(object.Bucket),
		Key:         aws.String(resp.FileName),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, object.Bucket, resp.Url)
	}

	return resp, nil
}

func (s *s3Storage) Delete(ctx context.Context, url string) (bool, error) {
	bucket, key, ok := s.parseURL(url)
	if !ok {
		return false, nil
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, fmt.Errorf("delete failed: %w, bucket %s, key %s", err, bucket, key)
	}

	return true, nil
}

// parseURL splits an url generated by this storage into its bucket and key.
func (s *s3Storage) parseURL(url string) (string, string, bool) {
	path, ok := strings.CutPrefix(url, s.cfg.PublicEndpoint+"/")
	if !ok {
		return "", "", false
	}

	bucket, key, ok := strings.Cut(path, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}

	return bucket, key, true
}
