package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error) {
	args := m.Called(ctx, merchantID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *MockProductRepo) FindByID(ctx context.Context, merchantID, productID string) (*model.Product, error) {
	args := m.Called(ctx, merchantID, productID)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepo) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) SoftDelete(ctx context.Context, merchantID, productID string) error {
	args := m.Called(ctx, merchantID, productID)
	return args.Error(0)
}

var _ repo.ProductRepository = (*MockProductRepo)(nil)

type MockCustomerRepo struct{ mock.Mock }

func (m *MockCustomerRepo) ListByMerchant(ctx context.Context, merchantID string) ([]model.Customer, error) {
	args := m.Called(ctx, merchantID)
	items, _ := args.Get(0).([]model.Customer)
	return items, args.Error(1)
}

func (m *MockCustomerRepo) FindByID(ctx context.Context, merchantID, customerID string) (*model.Customer, error) {
	args := m.Called(ctx, merchantID, customerID)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepo) SoftDelete(ctx context.Context, merchantID, customerID string) error {
	args := m.Called(ctx, merchantID, customerID)
	return args.Error(0)
}

var _ repo.CustomerRepository = (*MockCustomerRepo)(nil)

type MockMerchantRepo struct{ mock.Mock }

func (m *MockMerchantRepo) CreateWithOwner(ctx context.Context, mer *model.Merchant, owner *model.MerchantMember, settings *model.MerchantSettings) error {
	args := m.Called(ctx, mer, owner, settings)
	return args.Error(0)
}

func (m *MockMerchantRepo) FindByID(ctx context.Context, merchantID string) (*model.Merchant, error) {
	args := m.Called(ctx, merchantID)
	mer, _ := args.Get(0).(*model.Merchant)
	return mer, args.Error(1)
}

func (m *MockMerchantRepo) Update(ctx context.Context, mer *model.Merchant) error {
	args := m.Called(ctx, mer)
	return args.Error(0)
}

func (m *MockMerchantRepo) GetSettings(ctx context.Context, merchantID string) (*model.MerchantSettings, error) {
	args := m.Called(ctx, merchantID)
	s, _ := args.Get(0).(*model.MerchantSettings)
	return s, args.Error(1)
}

func (m *MockMerchantRepo) UpdateSettings(ctx context.Context, s *model.MerchantSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

var _ repo.MerchantRepository = (*MockMerchantRepo)(nil)

type MockMemberRepo struct{ mock.Mock }

func (m *MockMemberRepo) Create(ctx context.Context, mem *model.MerchantMember) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMemberRepo) FindByMerchantAndUser(ctx context.Context, merchantID, userID string) (*model.MerchantMember, error) {
	args := m.Called(ctx, merchantID, userID)
	mem, _ := args.Get(0).(*model.MerchantMember)
	return mem, args.Error(1)
}

func (m *MockMemberRepo) ListByMerchant(ctx context.Context, merchantID string) ([]model.MerchantMember, error) {
	args := m.Called(ctx, merchantID)
	items, _ := args.Get(0).([]model.MerchantMember)
	return items, args.Error(1)
}

func (m *MockMemberRepo) UpdateRole(ctx context.Context, merchantID, userID string, role model.MemberRole) error {
	args := m.Called(ctx, merchantID, userID, role)
	return args.Error(0)
}

func (m *MockMemberRepo) Deactivate(ctx context.Context, merchantID, userID string) error {
	args := m.Called(ctx, merchantID, userID)
	return args.Error(0)
}

func (m *MockMemberRepo) CountActiveByRole(ctx context.Context, merchantID string, role model.MemberRole) (int64, error) {
	args := m.Called(ctx, merchantID, role)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.MemberRepository = (*MockMemberRepo)(nil)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ repo.UserRepository = (*MockUserRepo)(nil)

type MockAuditRepo struct{ mock.Mock }

func (m *MockAuditRepo) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

var _ repo.AuditLogRepository = (*MockAuditRepo)(nil)

type MockInvoiceRepo struct{ mock.Mock }

func (m *MockInvoiceRepo) Issue(ctx context.Context, inv *model.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) FindByID(ctx context.Context, merchantID, invoiceID string) (*model.Invoice, error) {
	args := m.Called(ctx, merchantID, invoiceID)
	inv, _ := args.Get(0).(*model.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceRepo) ListByMerchant(ctx context.Context, merchantID string) ([]model.Invoice, error) {
	args := m.Called(ctx, merchantID)
	items, _ := args.Get(0).([]model.Invoice)
	return items, args.Error(1)
}

func (m *MockInvoiceRepo) MarkPaid(ctx context.Context, merchantID, invoiceID string) error {
	args := m.Called(ctx, merchantID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Void(ctx context.Context, merchantID, invoiceID string) error {
	args := m.Called(ctx, merchantID, invoiceID)
	return args.Error(0)
}

var _ repo.InvoiceRepository = (*MockInvoiceRepo)(nil)

// =====================
// テスト用の部品
// =====================

// 連番ID
type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%04d", g.n)
}

// 固定時刻
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// HTTPErrorのステータスを確認する
func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

// ロールつきの所属を返すようにモックを仕込む
func stubMember(memberRepo *MockMemberRepo, merchantID, userID string, role model.MemberRole) {
	memberRepo.On("FindByMerchantAndUser", mock.Anything, merchantID, userID).Return(&model.MerchantMember{
		ID:         "member-" + userID,
		MerchantID: merchantID,
		UserID:     userID,
		Role:       role,
		IsActive:   true,
	}, nil)
}
