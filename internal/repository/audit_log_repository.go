package repository

import (
	"app/internal/domain/model"
	"context"
)

type AuditLogFilter struct {
	MerchantID string
	Action     model.AuditAction
	Limit      int
}

// 監査ログの保存・参照。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
