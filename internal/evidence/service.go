package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/storage"
)

type Service interface {
	Upload(ctx context.Context, header *multipart.FileHeader, reservationID, userID string) (*Evidence, error)
	Get(ctx context.Context, id string) (*Evidence, error)
	ListByReservation(ctx context.Context, reservationID string) ([]*Evidence, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Evidence, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Evidence, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, reservationID, userID string) (*Evidence, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnUpload
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content so it can be read twice (original + thumbnail).
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	evidenceID := uuid.New().String()

	// Sharding path: evidence/ab/UUID.ext
	shard := evidenceID[:2]
	storagePath := fmt.Sprintf("evidence/%s/%s%s", shard, evidenceID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, apperror.Dependency("evidence storage unavailable", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
	if err == nil {
		tPath := fmt.Sprintf("evidence/%s/%s_thumb.jpg", shard, evidenceID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
			thumbnailPath = &tPath
		}
	}
	// Thumbnail failures don't fail the upload; the original is what matters.

	e := &Evidence{
		ID:            evidenceID,
		ReservationID: reservationID,
		UserID:        userID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return e, nil
}

func (s *service) Get(ctx context.Context, id string) (*Evidence, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByReservation(ctx context.Context, reservationID string) ([]*Evidence, error) {
	return s.repo.ListByReservation(ctx, reservationID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Evidence, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, e.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve evidence from storage: %w", err)
	}

	return stream, e, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Evidence, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if e.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *e.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}

	return stream, e, nil
}
