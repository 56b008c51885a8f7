package auth

import (
	"context"

	"app/internal/repository"
)

// LogoutUsecaseは全端末ログアウト。
// リフレッシュトークンを全部無効化し、TokenVersionを進めて
// 発行済みアクセストークンも失効させる。
type LogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
}

// DI
func NewLogoutUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	clock Clock,
) *LogoutUsecase {
	return &LogoutUsecase{
		userRepo: userRepo,
		rtRepo:   rtRepo,
		clock:    clock,
	}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID string) error {
	if err := u.rtRepo.RevokeAllByUserID(ctx, userID, u.clock.Now()); err != nil {
		return err
	}
	return u.userRepo.IncrementTokenVersion(ctx, userID)
}
