package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// マーチャント操作の前に呼ぶ共通の権限チェック。
// 所属していて、有効で、ロールがmin以上であることを確認する。
type memberGuard struct {
	memberRepo repo.MemberRepository
}

func (g memberGuard) require(ctx context.Context, merchantID, userID string, min model.MemberRole) (*model.MerchantMember, error) {
	if merchantID == "" || userID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	m, err := g.memberRepo.FindByMerchantAndUser(ctx, merchantID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		//所属していないことは漏らさない
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !m.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if !m.Role.AtLeast(min) {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return m, nil
}
