package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type memberGormRepository struct {
	db *gorm.DB
}

// DI
func NewMemberGormRepository(db *gorm.DB) repo.MemberRepository {
	return &memberGormRepository{db: db}
}

func (r *memberGormRepository) Create(ctx context.Context, m *model.MerchantMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// マーチャント×ユーザーで所属を1件取得
func (r *memberGormRepository) FindByMerchantAndUser(ctx context.Context, merchantID, userID string) (*model.MerchantMember, error) {
	var m model.MerchantMember
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND user_id = ?", merchantID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// マーチャントの全メンバー（無効化済みも含む）
func (r *memberGormRepository) ListByMerchant(ctx context.Context, merchantID string) ([]model.MerchantMember, error) {
	var members []model.MerchantMember
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberGormRepository) UpdateRole(ctx context.Context, merchantID, userID string, role model.MemberRole) error {
	res := r.db.WithContext(ctx).
		Model(&model.MerchantMember{}).
		Where("merchant_id = ? AND user_id = ?", merchantID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 物理削除ではなく無効化
func (r *memberGormRepository) Deactivate(ctx context.Context, merchantID, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&model.MerchantMember{}).
		Where("merchant_id = ? AND user_id = ? AND is_active = ?", merchantID, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *memberGormRepository) CountActiveByRole(ctx context.Context, merchantID string, role model.MemberRole) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.MerchantMember{}).
		Where("merchant_id = ? AND role = ? AND is_active = ?", merchantID, role, true).
		Count(&n).Error
	return n, err
}
