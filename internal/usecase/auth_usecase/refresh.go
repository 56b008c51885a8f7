package auth

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/logger"
	"app/internal/repository"

	"go.uber.org/zap"
)

// 無効・期限切れ・見つからないは全部これに潰す（情報を漏らさない）
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// 使用済みトークンの再提示。盗難の疑いがあるので全トークンを落とした後に返す。
var ErrRefreshTokenReused = errors.New("refresh token reused")

type RefreshInput struct {
	PlainRefreshToken string
	UserAgent         string
}

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

// RefreshUsecaseはリフレッシュトークンのローテーション。
// 提示されたトークンを使用済みにして、新しいペアを発行する。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

// DI
func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, RefreshSideEffect, error) {
	var out RefreshOutput
	var side RefreshSideEffect

	if in.PlainRefreshToken == "" {
		return out, side, ErrInvalidRefreshToken
	}

	stored, err := u.rtRepo.FindByTokenHash(ctx, hashRefreshToken(in.PlainRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}

	now := u.clock.Now()

	if stored.RevokedAt != nil || now.After(stored.ExpiresAt) {
		return out, side, ErrInvalidRefreshToken
	}

	// 使用済みの再提示 = ローテーション違反。盗難の可能性があるので
	// そのユーザーの全リフレッシュトークンを無効化する。
	if stored.UsedAt != nil {
		if err := u.rtRepo.RevokeAllByUserID(ctx, stored.UserID, now); err != nil {
			logger.L().Error("failed to revoke refresh tokens on reuse",
				zap.String("user_id", stored.UserID), zap.Error(err))
		}
		return out, side, ErrRefreshTokenReused
	}

	user, err := u.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return out, side, err
	}

	// 後継トークンを先に作ってから現行を使用済みにする。
	// 逆順だと使用済みにした直後の失敗でユーザーの手元に有効な
	// リフレッシュトークンが1本も残らなくなる。
	next := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashRefreshToken(plainRefresh),
		UserAgent: in.UserAgent,
		ExpiresAt: now.Add(u.refreshTTL),
	}
	if err := u.rtRepo.Create(ctx, next); err != nil {
		return out, side, err
	}

	if err := u.rtRepo.MarkUsed(ctx, stored.ID, now); err != nil {
		// 現行と後継が同時に生きる状態を残さない
		if rerr := u.rtRepo.Revoke(ctx, next.ID, now); rerr != nil {
			logger.L().Error("failed to revoke successor refresh token",
				zap.String("token_id", next.ID), zap.Error(rerr))
		}
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}
	side.PlainRefreshToken = plainRefresh
	return out, side, nil
}
