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

func newInvoiceUC(iRepo *MockInvoiceRepo, pRepo *MockProductRepo, cRepo *MockCustomerRepo, memRepo *MockMemberRepo, inv *recordingInvalidator) *usecase.InvoiceUsecase {
	return usecase.NewInvoiceUsecase(iRepo, pRepo, cRepo, memRepo, inv, &seqIDGen{}, &fixedClock{t: testNow})
}

func stubCustomer(cRepo *MockCustomerRepo, customerID string) {
	cRepo.On("FindByID", mock.Anything, testMerchant, customerID).Return(&model.Customer{
		ID: customerID, MerchantID: testMerchant, Name: "Alice", IsActive: true,
	}, nil)
}

func TestInvoiceUsecase_Issue_RequiresLines(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newInvoiceUC(new(MockInvoiceRepo), new(MockProductRepo), new(MockCustomerRepo), memRepo, &recordingInvalidator{})

	_, err := uc.Issue(context.Background(), testMerchant, testStaff, usecase.IssueInvoiceInput{CustomerID: "c-1"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestInvoiceUsecase_Issue_RejectsDuplicateProducts(t *testing.T) {
	memRepo := new(MockMemberRepo)
	cRepo := new(MockCustomerRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubCustomer(cRepo, "c-1")

	uc := newInvoiceUC(new(MockInvoiceRepo), new(MockProductRepo), cRepo, memRepo, &recordingInvalidator{})

	_, err := uc.Issue(context.Background(), testMerchant, testStaff, usecase.IssueInvoiceInput{
		CustomerID: "c-1",
		Lines: []usecase.InvoiceLineInput{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "p-1", Quantity: 2},
		},
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// 明細は発行時点の商品名・単価のスナップショット。合計も組み立て済みで渡す。
func TestInvoiceUsecase_Issue_Success(t *testing.T) {
	ctx := context.Background()

	iRepo := new(MockInvoiceRepo)
	pRepo := new(MockProductRepo)
	cRepo := new(MockCustomerRepo)
	memRepo := new(MockMemberRepo)
	inv := &recordingInvalidator{}
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubCustomer(cRepo, "c-1")

	pRepo.On("FindByID", mock.Anything, testMerchant, "p-1").Return(&model.Product{
		ID: "p-1", MerchantID: testMerchant, Name: "Coffee", Price: 300, Stock: 10, IsActive: true,
	}, nil)
	pRepo.On("FindByID", mock.Anything, testMerchant, "p-2").Return(&model.Product{
		ID: "p-2", MerchantID: testMerchant, Name: "Tea", Price: 200, Stock: 10, IsActive: true,
	}, nil)

	iRepo.On("Issue", mock.Anything, mock.MatchedBy(func(in *model.Invoice) bool {
		if in.MerchantID != testMerchant || in.CustomerID != "c-1" || len(in.Lines) != 2 {
			return false
		}
		return in.Total == 2*300+3*200 &&
			in.Lines[0].ProductName == "Coffee" && in.Lines[0].LineTotal == 600 &&
			in.Lines[1].ProductName == "Tea" && in.Lines[1].LineTotal == 600
	})).Return(nil)

	uc := newInvoiceUC(iRepo, pRepo, cRepo, memRepo, inv)

	out, err := uc.Issue(ctx, testMerchant, testStaff, usecase.IssueInvoiceInput{
		CustomerID: "c-1",
		Lines: []usecase.InvoiceLineInput{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), out.Total)
	assert.Equal(t, model.InvoiceStatusIssued, out.Status)

	// 在庫が動いたので商品一覧セッションは破棄される
	assert.Equal(t, []string{testMerchant}, inv.merchantIDs)

	iRepo.AssertExpectations(t)
	pRepo.AssertExpectations(t)
}

func TestInvoiceUsecase_Issue_InsufficientStock(t *testing.T) {
	iRepo := new(MockInvoiceRepo)
	pRepo := new(MockProductRepo)
	cRepo := new(MockCustomerRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubCustomer(cRepo, "c-1")

	pRepo.On("FindByID", mock.Anything, testMerchant, "p-1").Return(&model.Product{
		ID: "p-1", MerchantID: testMerchant, Name: "Coffee", Price: 300, Stock: 1, IsActive: true,
	}, nil)
	iRepo.On("Issue", mock.Anything, mock.Anything).Return(repo.ErrInsufficientStock)

	uc := newInvoiceUC(iRepo, pRepo, cRepo, memRepo, &recordingInvalidator{})

	_, err := uc.Issue(context.Background(), testMerchant, testStaff, usecase.IssueInvoiceInput{
		CustomerID: "c-1",
		Lines:      []usecase.InvoiceLineInput{{ProductID: "p-1", Quantity: 5}},
	})
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestInvoiceUsecase_Issue_InactiveProduct(t *testing.T) {
	pRepo := new(MockProductRepo)
	cRepo := new(MockCustomerRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubCustomer(cRepo, "c-1")

	pRepo.On("FindByID", mock.Anything, testMerchant, "p-1").Return(&model.Product{
		ID: "p-1", MerchantID: testMerchant, Name: "Old", Price: 100, IsActive: false,
	}, nil)

	uc := newInvoiceUC(new(MockInvoiceRepo), pRepo, cRepo, memRepo, &recordingInvalidator{})

	_, err := uc.Issue(context.Background(), testMerchant, testStaff, usecase.IssueInvoiceInput{
		CustomerID: "c-1",
		Lines:      []usecase.InvoiceLineInput{{ProductID: "p-1", Quantity: 1}},
	})
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestInvoiceUsecase_Void_RequiresAdmin(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newInvoiceUC(new(MockInvoiceRepo), new(MockProductRepo), new(MockCustomerRepo), memRepo, &recordingInvalidator{})

	err := uc.Void(context.Background(), testMerchant, testStaff, "inv-1")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestInvoiceUsecase_Void_Success(t *testing.T) {
	iRepo := new(MockInvoiceRepo)
	memRepo := new(MockMemberRepo)
	inv := &recordingInvalidator{}
	stubMember(memRepo, testMerchant, testAdmin, model.RoleAdmin)

	iRepo.On("Void", mock.Anything, testMerchant, "inv-1").Return(nil)

	uc := newInvoiceUC(iRepo, new(MockProductRepo), new(MockCustomerRepo), memRepo, inv)

	require.NoError(t, uc.Void(context.Background(), testMerchant, testAdmin, "inv-1"))
	assert.Equal(t, []string{testMerchant}, inv.merchantIDs)

	iRepo.AssertExpectations(t)
}

func TestInvoiceUsecase_MarkPaid_StatusConflict(t *testing.T) {
	iRepo := new(MockInvoiceRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	iRepo.On("MarkPaid", mock.Anything, testMerchant, "inv-1").Return(repo.ErrInvalidInvoiceStatus)

	uc := newInvoiceUC(iRepo, new(MockProductRepo), new(MockCustomerRepo), memRepo, &recordingInvalidator{})

	err := uc.MarkPaid(context.Background(), testMerchant, testStaff, "inv-1")
	assertHTTPStatus(t, err, http.StatusConflict)
}
