package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type merchantGormRepository struct {
	db *gorm.DB
}

// DI
func NewMerchantGormRepository(db *gorm.DB) repo.MerchantRepository {
	return &merchantGormRepository{db: db}
}

// オンボーディング一式を1トランザクションで保存する。
// 途中で失敗したら何も残らない。
func (r *merchantGormRepository) CreateWithOwner(ctx context.Context, m *model.Merchant, owner *model.MerchantMember, settings *model.MerchantSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		if err := tx.Create(settings).Error; err != nil {
			return err
		}
		return nil
	})
}

// IDでマーチャントを取得
func (r *merchantGormRepository) FindByID(ctx context.Context, merchantID string) (*model.Merchant, error) {
	var m model.Merchant
	err := r.db.WithContext(ctx).Where("id = ?", merchantID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// プロフィールの更新
func (r *merchantGormRepository) Update(ctx context.Context, m *model.Merchant) error {
	res := r.db.WithContext(ctx).Model(&model.Merchant{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":      m.Name,
		"phone":     m.Phone,
		"address":   m.Address,
		"is_active": m.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 設定を取得
func (r *merchantGormRepository) GetSettings(ctx context.Context, merchantID string) (*model.MerchantSettings, error) {
	var s model.MerchantSettings
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// 設定を更新（連番はここでは触らない。発行トランザクション側が進める）
func (r *merchantGormRepository) UpdateSettings(ctx context.Context, s *model.MerchantSettings) error {
	res := r.db.WithContext(ctx).Model(&model.MerchantSettings{}).Where("merchant_id = ?", s.MerchantID).Updates(map[string]interface{}{
		"currency":          s.Currency,
		"default_min_stock": s.DefaultMinStock,
		"expiry_warn_days":  s.ExpiryWarnDays,
		"invoice_prefix":    s.InvoicePrefix,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
