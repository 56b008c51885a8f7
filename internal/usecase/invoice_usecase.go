package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type InvoiceUsecase struct {
	invoiceRepo  repo.InvoiceRepository
	productRepo  repo.ProductRepository
	customerRepo repo.CustomerRepository
	guard        memberGuard
	// 発行・取り消しは在庫を動かすので、商品一覧のセッションを捨てさせる
	productLists sessionInvalidator
	idGen        IDGenerator
	clock        Clock
}

// DI
func NewInvoiceUsecase(
	invoiceRepo repo.InvoiceRepository,
	productRepo repo.ProductRepository,
	customerRepo repo.CustomerRepository,
	memberRepo repo.MemberRepository,
	productLists sessionInvalidator,
	idGen IDGenerator,
	clock Clock,
) *InvoiceUsecase {
	return &InvoiceUsecase{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		guard:        memberGuard{memberRepo: memberRepo},
		productLists: productLists,
		idGen:        idGen,
		clock:        clock,
	}
}

type InvoiceLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type IssueInvoiceInput struct {
	CustomerID string             `json:"customer_id"`
	Lines      []InvoiceLineInput `json:"lines"`
}

const maxInvoiceLines = 100

// Issueは請求書を発行する。明細は発行時点の商品名・単価のスナップショット。
// 番号採番と在庫の引き落としはリポジトリが1トランザクションで行う。
func (u *InvoiceUsecase) Issue(ctx context.Context, merchantID, userID string, in IssueInvoiceInput) (*model.Invoice, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "at least one line required")
	}
	if len(in.Lines) > maxInvoiceLines {
		return nil, NewHTTPError(http.StatusBadRequest, "too many lines")
	}

	if _, err := u.customerRepo.FindByID(ctx, merchantID, in.CustomerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	inv := &model.Invoice{
		ID:         u.idGen.NewID(),
		MerchantID: merchantID,
		CustomerID: in.CustomerID,
		Status:     model.InvoiceStatusIssued,
		IssuedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	seen := make(map[string]bool, len(in.Lines))
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, NewHTTPError(http.StatusBadRequest, "quantity must be positive")
		}
		if seen[line.ProductID] {
			return nil, NewHTTPError(http.StatusBadRequest, "duplicate product in lines")
		}
		seen[line.ProductID] = true

		p, err := u.productRepo.FindByID(ctx, merchantID, line.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return nil, NewHTTPError(http.StatusConflict, "product is inactive")
		}

		lineTotal := p.Price * line.Quantity
		inv.Lines = append(inv.Lines, model.InvoiceLine{
			ID:          u.idGen.NewID(),
			InvoiceID:   inv.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
			CreatedAt:   now,
		})
		inv.Total += lineTotal
	}

	if err := u.invoiceRepo.Issue(ctx, inv); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, NewHTTPError(http.StatusConflict, "insufficient stock")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 在庫が変わったので、この店の商品一覧は次回リロード
	u.productLists.InvalidateSessions(merchantID)
	return inv, nil
}

func (u *InvoiceUsecase) Get(ctx context.Context, merchantID, userID, invoiceID string) (*model.Invoice, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	inv, err := u.invoiceRepo.FindByID(ctx, merchantID, invoiceID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return inv, nil
}

func (u *InvoiceUsecase) List(ctx context.Context, merchantID, userID string) ([]model.Invoice, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	invoices, err := u.invoiceRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

func (u *InvoiceUsecase) MarkPaid(ctx context.Context, merchantID, userID, invoiceID string) error {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return err
	}

	err := u.invoiceRepo.MarkPaid(ctx, merchantID, invoiceID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrInvalidInvoiceStatus):
		return NewHTTPError(http.StatusConflict, "invoice is not payable")
	case err != nil:
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// VoidはADMIN以上。在庫が戻るので商品一覧セッションも捨てる。
func (u *InvoiceUsecase) Void(ctx context.Context, merchantID, userID, invoiceID string) error {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return err
	}

	err := u.invoiceRepo.Void(ctx, merchantID, invoiceID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrInvalidInvoiceStatus):
		return NewHTTPError(http.StatusConflict, "invoice is not voidable")
	case err != nil:
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.productLists.InvalidateSessions(merchantID)
	return nil
}
