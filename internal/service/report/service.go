package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
)

var (
	ErrNotFound          = errors.New("report not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
)

type Attachment struct {
	FileName string
	Size     int64
	MimeType string
	Reader   io.Reader
}

type Service interface {
	Create(ctx context.Context, authorID, equipmentID uuid.UUID, summary string, attachment *Attachment) (*domain.MaintenanceReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceReport, error)
	List(ctx context.Context, equipmentID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.MaintenanceReport], error)
}

type service struct {
	repo          repository.ReportRepository
	equipmentRepo repository.EquipmentRepository
	minioClient   *minio.Client
	cfg           *config.Config
}

func NewService(repo repository.ReportRepository, equipmentRepo repository.EquipmentRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		repo:          repo,
		equipmentRepo: equipmentRepo,
		minioClient:   minioClient,
		cfg:           cfg,
	}
}

func (s *service) Create(ctx context.Context, authorID, equipmentID uuid.UUID, summary string, attachment *Attachment) (*domain.MaintenanceReport, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, ErrEquipmentNotFound
	}

	reportID := uuid.New()
	var attachmentPath *string

	if attachment != nil {
		if s.minioClient == nil {
			return nil, errors.New("attachment storage unavailable")
		}
		storagePath := fmt.Sprintf("reportes/%s/%s", time.Now().Format("2006/01"), reportID.String())

		_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, attachment.Reader, attachment.Size, minio.PutObjectOptions{
			ContentType: attachment.MimeType,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment: %w", err)
		}
		attachmentPath = &storagePath
	}

	report := &domain.MaintenanceReport{
		ID:             reportID,
		EquipmentID:    equipmentID,
		AuthorID:       authorID,
		Summary:        summary,
		AttachmentPath: attachmentPath,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		if attachmentPath != nil {
			_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, *attachmentPath, minio.RemoveObjectOptions{})
		}
		return nil, err
	}

	s.fillURL(report)
	return report, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	s.fillURL(report)
	return report, nil
}

func (s *service) List(ctx context.Context, equipmentID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.MaintenanceReport], error) {
	reports, total, err := s.repo.List(ctx, equipmentID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.MaintenanceReport]{}, err
	}
	for i := range reports {
		s.fillURL(&reports[i])
	}
	return domain.NewPaginatedResponse(reports, params.Page, params.PageSize, total), nil
}

func (s *service) fillURL(report *domain.MaintenanceReport) {
	if report.AttachmentPath == nil {
		return
	}
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	report.AttachmentURL = fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, *report.AttachmentPath)
}
