package dataset

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/database"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Source supplies the raw dataset once at startup
type Source interface {
	Load(ctx context.Context) ([]models.RawMeteorite, error)
	Describe() string
}

// FileSource reads a JSON dataset file, optionally gzip or zstd compressed
type FileSource struct {
	Path string
}

// Load implements Source
func (s *FileSource) Load(_ context.Context) ([]models.RawMeteorite, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return decodeStream(f)
}

// Describe implements Source
func (s *FileSource) Describe() string {
	return "file:" + s.Path
}

// SQLiteSource reads the dataset from a SQLite table
type SQLiteSource struct {
	Path  string
	Table string
}

// Load implements Source
func (s *SQLiteSource) Load(ctx context.Context) ([]models.RawMeteorite, error) {
	db, err := database.Open(ctx, database.Config{Path: s.Path})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	repo, err := repository.NewMeteoriteRepository(db, s.Table)
	if err != nil {
		return nil, err
	}
	return repo.LoadAll(ctx)
}

// Describe implements Source
func (s *SQLiteSource) Describe() string {
	return "sqlite:" + s.Path + "#" + s.Table
}

// ObjectGetter is the part of *minio.Client used by S3Source
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// S3Source reads a JSON dataset object from S3-compatible storage
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Object string
}

// NewS3Source creates a minio client for cfg
func NewS3Source(cfg config.S3Config) (*S3Source, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &S3Source{Client: client, Bucket: cfg.Bucket, Object: cfg.Object}, nil
}

// Load implements Source
func (s *S3Source) Load(ctx context.Context) ([]models.RawMeteorite, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, s.Object, err)
	}
	defer obj.Close()

	return decodeStream(obj)
}

// Describe implements Source
func (s *S3Source) Describe() string {
	return "s3://" + s.Bucket + "/" + s.Object
}

func decodeStream(r io.Reader) ([]models.RawMeteorite, error) {
	rc, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Decode(rc)
}

// NewSource builds the Source selected by cfg.Source
func NewSource(cfg config.DatasetConfig) (Source, error) {
	switch cfg.Source {
	case "", "file":
		return &FileSource{Path: cfg.Path}, nil
	case "sqlite":
		return &SQLiteSource{Path: cfg.Path, Table: cfg.Table}, nil
	case "s3":
		return NewS3Source(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}
