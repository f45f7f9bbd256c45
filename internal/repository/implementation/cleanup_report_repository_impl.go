package implementation

import (
	"context"

	"pairprep-be/internal/model"
	"pairprep-be/internal/repository/contract"

	"gorm.io/gorm"
)

type CleanupReportRepositoryImpl struct {
	db *gorm.DB
}

func NewCleanupReportRepository(db *gorm.DB) contract.CleanupReportRepository {
	return &CleanupReportRepositoryImpl{db: db}
}

func (r *CleanupReportRepositoryImpl) Create(ctx context.Context, report *model.CleanupReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}
