package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type productGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) repo.ProductRepository {
	return &productGormRepository{db: db}
}

// マーチャントの全商品を返す。
// WHEREはテナント縛りだけ。検索・カテゴリ・ページングはlistview側の仕事。
func (r *productGormRepository) ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("updated_at desc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// IDで商品を取得（他テナントの商品は見えない）
func (r *productGormRepository) FindByID(ctx context.Context, merchantID, productID string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", productID, merchantID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// 商品の作成
func (r *productGormRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// 商品の更新
func (r *productGormRepository) Update(ctx context.Context, p *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND merchant_id = ?", p.ID, p.MerchantID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"category":    p.Category,
			"brand":       p.Brand,
			"barcode":     p.Barcode,
			"unit":        p.Unit,
			"price":       p.Price,
			"stock":       p.Stock,
			"min_stock":   p.MinStock,
			"expiry_date": p.ExpiryDate,
			"is_active":   p.IsActive,
			"updated_at":  p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（論理削除）
func (r *productGormRepository) SoftDelete(ctx context.Context, merchantID, productID string) error {
	res := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Delete(&model.Product{}, "id = ?", productID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
