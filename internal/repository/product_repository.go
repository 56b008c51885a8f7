package repository

import (
	"app/internal/domain/model"
	"context"
)

// 商品の永続化（保存・取得）だけを約束。
// 一覧の絞り込み・並び替え・ページングはDBではなくlistviewエンジンが行うため、
// 取得は「テナント全件」の1本だけでよい。
type ProductRepository interface {
	// マーチャントの全商品（論理削除済みを除く）を返す
	ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error)
	FindByID(ctx context.Context, merchantID, productID string) (*model.Product, error)

	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, merchantID, productID string) error
}
