package contract

import (
	"context"

	"pairprep-be/internal/model"
)

type CleanupReportRepository interface {
	Create(ctx context.Context, report *model.CleanupReport) error
}
