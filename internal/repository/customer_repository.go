package repository

import (
	"app/internal/domain/model"
	"context"
)

// 顧客の永続化。商品と同じく一覧ロジックはlistviewエンジン側。
type CustomerRepository interface {
	ListByMerchant(ctx context.Context, merchantID string) ([]model.Customer, error)
	FindByID(ctx context.Context, merchantID, customerID string) (*model.Customer, error)

	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	SoftDelete(ctx context.Context, merchantID, customerID string) error
}
