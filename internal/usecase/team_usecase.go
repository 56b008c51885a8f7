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

type TeamUsecase struct {
	memberRepo repo.MemberRepository
	userRepo   repo.UserRepository
	auditRepo  repo.AuditLogRepository
	guard      memberGuard
	idGen      IDGenerator
	clock      Clock
}

// DI
func NewTeamUsecase(
	memberRepo repo.MemberRepository,
	userRepo repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
) *TeamUsecase {
	return &TeamUsecase{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		guard:      memberGuard{memberRepo: memberRepo},
		idGen:      idGen,
		clock:      clock,
	}
}

// メンバー一覧にユーザーの表示名・メールを添えて返す。
type MemberOutput struct {
	ID       string           `json:"id"`
	UserID   string           `json:"user_id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     model.MemberRole `json:"role"`
	IsActive bool             `json:"is_active"`
}

func (u *TeamUsecase) ListMembers(ctx context.Context, merchantID, userID string) ([]MemberOutput, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	members, err := u.memberRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]MemberOutput, 0, len(members))
	for _, m := range members {
		o := MemberOutput{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     m.Role,
			IsActive: m.IsActive,
		}
		// 退会済みユーザーでも一覧自体は返す
		if usr, err := u.userRepo.FindByID(ctx, m.UserID); err == nil {
			o.Name = usr.Name
			o.Email = usr.Email
		}
		out = append(out, o)
	}
	return out, nil
}

type AddMemberInput struct {
	Email string
	Role  string
}

// AddMemberは既存ユーザーをメールで探して所属させる。ADMIN以上。
// OWNERロールの付与はオンボーディング経由のみで、ここでは許さない。
func (u *TeamUsecase) AddMember(ctx context.Context, merchantID, actorID string, in AddMemberInput) (*model.MerchantMember, error) {
	if _, err := u.guard.require(ctx, merchantID, actorID, model.RoleAdmin); err != nil {
		return nil, err
	}

	role, ok := model.ParseMemberRole(in.Role)
	if !ok || role == model.RoleOwner {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	usr, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existing, err := u.memberRepo.FindByMerchantAndUser(ctx, merchantID, usr.ID); err == nil && existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "already a member")
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	m := &model.MerchantMember{
		ID:         u.idGen.NewID(),
		MerchantID: merchantID,
		UserID:     usr.ID,
		Role:       role,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.memberRepo.Create(ctx, m); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, merchantID, actorID, model.AuditActionAddMember, m.ID, nil, m)
	return m, nil
}

// ChangeRoleはOWNERのみ。最後のオーナーを降格させることはできない。
func (u *TeamUsecase) ChangeRole(ctx context.Context, merchantID, actorID, targetUserID, newRole string) error {
	if _, err := u.guard.require(ctx, merchantID, actorID, model.RoleOwner); err != nil {
		return err
	}

	role, ok := model.ParseMemberRole(newRole)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	target, err := u.memberRepo.FindByMerchantAndUser(ctx, merchantID, targetUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if target.Role == role {
		return nil
	}

	if target.Role == model.RoleOwner && role != model.RoleOwner {
		if err := u.requireAnotherOwner(ctx, merchantID); err != nil {
			return err
		}
	}

	if err := u.memberRepo.UpdateRole(ctx, merchantID, targetUserID, role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "member not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := *target
	after := *target
	after.Role = role
	u.audit(ctx, merchantID, actorID, model.AuditActionChangeRole, target.ID, before, after)
	return nil
}

// DeactivateはOWNERのみ。最後のオーナーは外せない。
func (u *TeamUsecase) Deactivate(ctx context.Context, merchantID, actorID, targetUserID string) error {
	if _, err := u.guard.require(ctx, merchantID, actorID, model.RoleOwner); err != nil {
		return err
	}

	target, err := u.memberRepo.FindByMerchantAndUser(ctx, merchantID, targetUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if target.Role == model.RoleOwner {
		if err := u.requireAnotherOwner(ctx, merchantID); err != nil {
			return err
		}
	}

	if err := u.memberRepo.Deactivate(ctx, merchantID, targetUserID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "member not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, merchantID, actorID, model.AuditActionRemoveMember, target.ID, target, nil)
	return nil
}

func (u *TeamUsecase) requireAnotherOwner(ctx context.Context, merchantID string) error {
	count, err := u.memberRepo.CountActiveByRole(ctx, merchantID, model.RoleOwner)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count <= 1 {
		return NewHTTPError(http.StatusConflict, "cannot remove the last owner")
	}
	return nil
}

func (u *TeamUsecase) audit(ctx context.Context, merchantID, actorID string, action model.AuditAction, resourceID string, before, after any) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		MerchantID:   merchantID,
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceMember,
		ResourceID:   resourceID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    u.clock.Now(),
	})
}
