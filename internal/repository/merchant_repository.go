package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// マーチャント（テナント）の永続化。
type MerchantRepository interface {
	// オンボーディング: マーチャント + オーナー所属 + デフォルト設定を
	// 1トランザクションで作る。
	CreateWithOwner(ctx context.Context, m *model.Merchant, owner *model.MerchantMember, settings *model.MerchantSettings) error
	FindByID(ctx context.Context, merchantID string) (*model.Merchant, error)
	Update(ctx context.Context, m *model.Merchant) error

	GetSettings(ctx context.Context, merchantID string) (*model.MerchantSettings, error)
	UpdateSettings(ctx context.Context, s *model.MerchantSettings) error
}

// マーチャントへの所属（メンバーシップ）の永続化。
type MemberRepository interface {
	Create(ctx context.Context, m *model.MerchantMember) error
	FindByMerchantAndUser(ctx context.Context, merchantID, userID string) (*model.MerchantMember, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]model.MerchantMember, error)
	UpdateRole(ctx context.Context, merchantID, userID string, role model.MemberRole) error
	Deactivate(ctx context.Context, merchantID, userID string) error
	// ロール変更・削除時の「最後のオーナー」保護に使う
	CountActiveByRole(ctx context.Context, merchantID string, role model.MemberRole) (int64, error)
}
