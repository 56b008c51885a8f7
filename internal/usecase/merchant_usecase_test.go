package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMerchantUC(mRepo *MockMerchantRepo, memRepo *MockMemberRepo, aRepo *MockAuditRepo) *usecase.MerchantUsecase {
	return usecase.NewMerchantUsecase(mRepo, memRepo, aRepo, &seqIDGen{}, &fixedClock{t: testNow})
}

// InvalidateSessionsの呼び出しを記録する
type recordingInvalidator struct {
	merchantIDs []string
}

func (r *recordingInvalidator) InvalidateSessions(merchantID string) {
	r.merchantIDs = append(r.merchantIDs, merchantID)
}

func TestMerchantUsecase_Onboard_NameRequired(t *testing.T) {
	uc := newMerchantUC(new(MockMerchantRepo), new(MockMemberRepo), new(MockAuditRepo))

	_, err := uc.Onboard(context.Background(), testOwner, usecase.OnboardInput{Name: "  "})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// マーチャント + オーナー所属 + デフォルト設定が一括で作られる
func TestMerchantUsecase_Onboard_Success(t *testing.T) {
	mRepo := new(MockMerchantRepo)

	mRepo.On("CreateWithOwner", mock.Anything,
		mock.MatchedBy(func(m *model.Merchant) bool {
			return m.Name == "Corner Shop" && m.OwnerUserID == testOwner && m.IsActive
		}),
		mock.MatchedBy(func(o *model.MerchantMember) bool {
			return o.UserID == testOwner && o.Role == model.RoleOwner && o.IsActive
		}),
		mock.MatchedBy(func(s *model.MerchantSettings) bool {
			return s.DefaultMinStock == 5 && s.ExpiryWarnDays == 30 && s.InvoicePrefix == "INV"
		}),
	).Return(nil)

	uc := newMerchantUC(mRepo, new(MockMemberRepo), new(MockAuditRepo))

	m, err := uc.Onboard(context.Background(), testOwner, usecase.OnboardInput{Name: " Corner Shop "})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	mRepo.AssertExpectations(t)
}

func TestMerchantUsecase_UpdateSettings_RequiresAdmin(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newMerchantUC(new(MockMerchantRepo), memRepo, new(MockAuditRepo))

	_, err := uc.UpdateSettings(context.Background(), testMerchant, testStaff, usecase.SettingsInput{
		Currency: "USD", DefaultMinStock: 5, ExpiryWarnDays: 30, InvoicePrefix: "INV",
	})
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestMerchantUsecase_UpdateSettings_Validation(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testAdmin, model.RoleAdmin)

	uc := newMerchantUC(new(MockMerchantRepo), memRepo, new(MockAuditRepo))

	cases := []usecase.SettingsInput{
		{Currency: "US", DefaultMinStock: 5, ExpiryWarnDays: 30, InvoicePrefix: "INV"},
		{Currency: "USD", DefaultMinStock: -1, ExpiryWarnDays: 30, InvoicePrefix: "INV"},
		{Currency: "USD", DefaultMinStock: 5, ExpiryWarnDays: 0, InvoicePrefix: "INV"},
		{Currency: "USD", DefaultMinStock: 5, ExpiryWarnDays: 400, InvoicePrefix: "INV"},
		{Currency: "USD", DefaultMinStock: 5, ExpiryWarnDays: 30, InvoicePrefix: ""},
	}
	for _, in := range cases {
		_, err := uc.UpdateSettings(context.Background(), testMerchant, testAdmin, in)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	}
}

func TestMerchantUsecase_ListAuditLogs_RequiresAdmin(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newMerchantUC(new(MockMerchantRepo), memRepo, new(MockAuditRepo))

	_, err := uc.ListAuditLogs(context.Background(), testMerchant, testStaff, "", 0)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestMerchantUsecase_ListAuditLogs_FiltersByAction(t *testing.T) {
	memRepo := new(MockMemberRepo)
	aRepo := new(MockAuditRepo)
	stubMember(memRepo, testMerchant, testAdmin, model.RoleAdmin)

	aRepo.On("List", mock.Anything, repo.AuditLogFilter{
		MerchantID: testMerchant,
		Action:     model.AuditActionChangeRole,
		Limit:      10,
	}).Return([]model.AuditLog{{ID: 1, Action: model.AuditActionChangeRole}}, nil)

	uc := newMerchantUC(new(MockMerchantRepo), memRepo, aRepo)

	logs, err := uc.ListAuditLogs(context.Background(), testMerchant, testAdmin, "CHANGE_ROLE", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	// 未知の操作名は弾く
	_, err = uc.ListAuditLogs(context.Background(), testMerchant, testAdmin, "BOGUS", 10)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	aRepo.AssertExpectations(t)
}

// 設定変更は監査ログを残し、一覧セッションを破棄させる
func TestMerchantUsecase_UpdateSettings_AuditsAndInvalidates(t *testing.T) {
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	aRepo := new(MockAuditRepo)
	stubMember(memRepo, testMerchant, testAdmin, model.RoleAdmin)

	mRepo.On("GetSettings", mock.Anything, testMerchant).Return(&model.MerchantSettings{
		MerchantID:      testMerchant,
		Currency:        "USD",
		DefaultMinStock: 5,
		ExpiryWarnDays:  30,
		InvoicePrefix:   "INV",
	}, nil)
	mRepo.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(s *model.MerchantSettings) bool {
		return s.DefaultMinStock == 10 && s.ExpiryWarnDays == 14 && s.Currency == "EUR"
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateSettings && l.ResourceType == model.AuditResourceSettings
	})).Return(nil)

	uc := newMerchantUC(mRepo, memRepo, aRepo)

	inv := &recordingInvalidator{}
	uc.RegisterInvalidator(inv)

	s, err := uc.UpdateSettings(context.Background(), testMerchant, testAdmin, usecase.SettingsInput{
		Currency:        "eur",
		DefaultMinStock: 10,
		ExpiryWarnDays:  14,
		InvoicePrefix:   "INV",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, []string{testMerchant}, inv.merchantIDs)

	mRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}
