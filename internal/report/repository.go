// File: internal/report/repository.go
package report

import (
	"context"
	"errors"
	"fmt"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, report *Report) error
	FindByStatus(ctx context.Context, status ReportStatus, page, pageSize int) ([]Report, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM report repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, report *Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	var report Report
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Report not found.")
		}
		return nil, fmt.Errorf("failed to find report %s: %w", id, err)
	}
	return &report, nil
}

func (r *gormRepository) Update(ctx context.Context, report *Report) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		return fmt.Errorf("failed to update report %s: %w", report.ID, err)
	}
	return nil
}

// FindByStatus returns reports in the given state, oldest first.
func (r *gormRepository) FindByStatus(ctx context.Context, status ReportStatus, page, pageSize int) ([]Report, *common.Pagination, error) {
	var reports []Report
	var total int64

	query := r.db.WithContext(ctx).Model(&Report{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count reports by status: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := query.Order("created_at ASC").
		Limit(pagination.PageSize).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch reports by status: %w", err)
	}
	return reports, pagination, nil
}
