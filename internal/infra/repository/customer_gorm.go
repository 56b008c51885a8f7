package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type customerGormRepository struct {
	db *gorm.DB
}

// DI
func NewCustomerGormRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerGormRepository{db: db}
}

// マーチャントの全顧客を返す
func (r *customerGormRepository) ListByMerchant(ctx context.Context, merchantID string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("updated_at desc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerGormRepository) FindByID(ctx context.Context, merchantID, customerID string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", customerID, merchantID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerGormRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerGormRepository) Update(ctx context.Context, c *model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND merchant_id = ?", c.ID, c.MerchantID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"phone":      c.Phone,
			"email":      c.Email,
			"address":    c.Address,
			"note":       c.Note,
			"is_active":  c.IsActive,
			"updated_at": c.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 顧客削除（論理削除）
func (r *customerGormRepository) SoftDelete(ctx context.Context, merchantID, customerID string) error {
	res := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Delete(&model.Customer{}, "id = ?", customerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
