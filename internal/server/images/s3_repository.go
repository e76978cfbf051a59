package images

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	sc "github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/dbx"
)

// S3Repository keeps image bytes in an S3-compatible object store while ids
// and object keys stay in Postgres, so an image id looks the same to callers
// regardless of the configured backend.
type S3Repository struct {
	db     dbx.DBTX
	client *s3.Client
	bucket string
}

func getRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func newS3Client(cfg *sc.Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func NewS3Repository(db dbx.DBTX, cfg *sc.Config) (*S3Repository, error) {
	client, err := newS3Client(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 client init error: %w", err)
	}
	return &S3Repository{db: db, client: client, bucket: cfg.S3Bucket}, nil
}

func (r *S3Repository) Insert(ctx context.Context, image []byte) (int64, error) {

	key := getRandomStorageKey()

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
		Body:   bytes.NewReader(image),
	})
	if err != nil {
		return 0, fmt.Errorf("error uploading object: %v", err)
	}

	query :=
		`INSERT INTO images (storage_key)
         VALUES ($1)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *S3Repository) Read(ctx context.Context, id int64) ([]byte, error) {

	query :=
		`SELECT storage_key FROM images
		 WHERE id = $1
		 `

	var key string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&key)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error downloading object: %v", err)
	}
	defer out.Body.Close()

	image, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading object body: %v", err)
	}

	return image, nil
}
