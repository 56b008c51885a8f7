package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 設定変更時に一覧セッションを破棄させる相手（商品・顧客ユースケース）。
type sessionInvalidator interface {
	InvalidateSessions(merchantID string)
}

type MerchantUsecase struct {
	merchantRepo repo.MerchantRepository
	memberRepo   repo.MemberRepository
	auditRepo    repo.AuditLogRepository
	guard        memberGuard
	invalidators []sessionInvalidator
	idGen        IDGenerator
	clock        Clock
}

// DI
func NewMerchantUsecase(
	merchantRepo repo.MerchantRepository,
	memberRepo repo.MemberRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
) *MerchantUsecase {
	return &MerchantUsecase{
		merchantRepo: merchantRepo,
		memberRepo:   memberRepo,
		auditRepo:    auditRepo,
		guard:        memberGuard{memberRepo: memberRepo},
		idGen:        idGen,
		clock:        clock,
	}
}

// RegisterInvalidatorは設定変更の影響を受けるユースケースを登録する。
// 循環参照を避けるため、組み立て時(main)に呼ぶ。
func (u *MerchantUsecase) RegisterInvalidator(inv sessionInvalidator) {
	u.invalidators = append(u.invalidators, inv)
}

type OnboardInput struct {
	Name    string
	Phone   string
	Address string
}

// Onboardはログイン済みユーザーが新しいマーチャントを開設する。
// マーチャント本体 + オーナー所属 + デフォルト設定を一括で作る。
func (u *MerchantUsecase) Onboard(ctx context.Context, userID string, in OnboardInput) (*model.Merchant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(name) > 255 {
		return nil, NewHTTPError(http.StatusBadRequest, "name too long")
	}

	now := u.clock.Now()
	m := &model.Merchant{
		ID:          u.idGen.NewID(),
		Name:        name,
		OwnerUserID: userID,
		Phone:       strings.TrimSpace(in.Phone),
		Address:     in.Address,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &model.MerchantMember{
		ID:         u.idGen.NewID(),
		MerchantID: m.ID,
		UserID:     userID,
		Role:       model.RoleOwner,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	settings := &model.MerchantSettings{
		MerchantID:      m.ID,
		Currency:        "USD",
		DefaultMinStock: 5,
		ExpiryWarnDays:  30,
		InvoicePrefix:   "INV",
		InvoiceSeq:      0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := u.merchantRepo.CreateWithOwner(ctx, m, owner, settings); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

func (u *MerchantUsecase) Get(ctx context.Context, merchantID, userID string) (*model.Merchant, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	m, err := u.merchantRepo.FindByID(ctx, merchantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

type MerchantUpdateInput struct {
	Name    string
	Phone   string
	Address string
}

// プロフィール更新はADMIN以上
func (u *MerchantUsecase) Update(ctx context.Context, merchantID, userID string, in MerchantUpdateInput) (*model.Merchant, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}

	m, err := u.merchantRepo.FindByID(ctx, merchantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	m.Name = name
	m.Phone = strings.TrimSpace(in.Phone)
	m.Address = in.Address
	m.UpdatedAt = u.clock.Now()

	if err := u.merchantRepo.Update(ctx, m); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

func (u *MerchantUsecase) GetSettings(ctx context.Context, merchantID, userID string) (*model.MerchantSettings, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	s, err := u.merchantRepo.GetSettings(ctx, merchantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

type SettingsInput struct {
	Currency        string
	DefaultMinStock int64
	ExpiryWarnDays  int
	InvoicePrefix   string
}

// 設定更新はADMIN以上。一覧エンジンの閾値に効くので、成功後に
// 対象マーチャントのセッションを破棄して次回Loadさせる。
func (u *MerchantUsecase) UpdateSettings(ctx context.Context, merchantID, userID string, in SettingsInput) (*model.MerchantSettings, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return nil, err
	}
	if len(in.Currency) != 3 {
		return nil, NewHTTPError(http.StatusBadRequest, "currency must be a 3-letter code")
	}
	if in.DefaultMinStock < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "default_min_stock must be >= 0")
	}
	if in.ExpiryWarnDays < 1 || in.ExpiryWarnDays > 365 {
		return nil, NewHTTPError(http.StatusBadRequest, "expiry_warn_days must be between 1 and 365")
	}
	prefix := strings.TrimSpace(in.InvoicePrefix)
	if prefix == "" || len(prefix) > 10 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid invoice_prefix")
	}

	s, err := u.merchantRepo.GetSettings(ctx, merchantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := *s
	s.Currency = strings.ToUpper(in.Currency)
	s.DefaultMinStock = in.DefaultMinStock
	s.ExpiryWarnDays = in.ExpiryWarnDays
	s.InvoicePrefix = prefix
	s.UpdatedAt = u.clock.Now()

	if err := u.merchantRepo.UpdateSettings(ctx, s); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, merchantID, userID, model.AuditActionUpdateSettings, model.AuditResourceSettings, merchantID, before, *s)

	for _, inv := range u.invalidators {
		inv.InvalidateSessions(merchantID)
	}
	return s, nil
}

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 100
)

// 監査ログの参照はADMIN以上。actionを指定すると操作種別で絞り込む。
func (u *MerchantUsecase) ListAuditLogs(ctx context.Context, merchantID, userID, action string, limit int) ([]model.AuditLog, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return nil, err
	}

	filter := repo.AuditLogFilter{MerchantID: merchantID, Limit: limit}
	if action != "" {
		a, ok := model.ParseAuditAction(action)
		if !ok {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		filter.Action = a
	}
	if filter.Limit <= 0 || filter.Limit > maxAuditLogLimit {
		filter.Limit = defaultAuditLogLimit
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// 監査ログの失敗で本体の操作は失敗させない。
func (u *MerchantUsecase) audit(ctx context.Context, merchantID, actorID string, action model.AuditAction, resType model.AuditResourceType, resID string, before, after any) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		MerchantID:   merchantID,
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resType,
		ResourceID:   resID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    u.clock.Now(),
	})
}
