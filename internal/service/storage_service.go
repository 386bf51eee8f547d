package service

import (
	"bytes"
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where catalog exports land.
type StorageProvider interface {
	Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error)
}

// LocalStorageProvider writes exports under a local directory.
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return dst, nil
}

// MinioStorageProvider uploads exports to an S3-compatible bucket.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func (p *MinioStorageProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", p.Config.MinioBucket, name), nil
}

// CatalogLister is the read access the export needs.
type CatalogLister interface {
	ListAllSongs() ([]model.Song, error)
	ListAllLines() ([]model.LyricLine, error)
	ListAllQuizLines() ([]model.QuizLine, error)
}

// StorageService serializes the whole catalog (songs, lines,
// classifications) to JSON and hands it to the configured provider.
// Used by the admin export endpoint as a portable backup.
type StorageService struct {
	provider StorageProvider
	catalog  CatalogLister
}

func NewStorageService(cfg *config.Config, catalog CatalogLister) (*StorageService, error) {
	provider, err := newProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &StorageService{provider: provider, catalog: catalog}, nil
}

func newProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return &MinioStorageProvider{Config: cfg, Client: client}, nil
	default:
		return &LocalStorageProvider{Config: cfg}, nil
	}
}

type catalogExport struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Songs      []model.Song      `json:"songs"`
	Lines      []model.LyricLine `json:"lines"`
	QuizLines  []model.QuizLine  `json:"quizLines"`
}

// ExportCatalog returns the location of the uploaded export object.
func (s *StorageService) ExportCatalog(ctx context.Context) (string, error) {
	export := catalogExport{ExportedAt: time.Now().UTC()}

	var err error
	if export.Songs, err = s.catalog.ListAllSongs(); err != nil {
		return "", err
	}
	if export.Lines, err = s.catalog.ListAllLines(); err != nil {
		return "", err
	}
	if export.QuizLines, err = s.catalog.ListAllQuizLines(); err != nil {
		return "", err
	}

	data, err := json.Marshal(export)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("exports/catalog-%s.json", export.ExportedAt.Format("20060102T150405Z"))
	return s.provider.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), "application/json")
}
