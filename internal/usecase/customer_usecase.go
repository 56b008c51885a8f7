package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/listview"
	repo "app/internal/repository"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
	guard        memberGuard
	sessions     *listSessions[model.Customer]
	idGen        IDGenerator
	clock        Clock
	pageSize     int
	suggestLimit int
}

// DI
func NewCustomerUsecase(
	customerRepo repo.CustomerRepository,
	memberRepo repo.MemberRepository,
	idGen IDGenerator,
	clock Clock,
	pageSize int,
	suggestLimit int,
) *CustomerUsecase {
	return &CustomerUsecase{
		customerRepo: customerRepo,
		guard:        memberGuard{memberRepo: memberRepo},
		sessions:     newListSessions[model.Customer](),
		idGen:        idGen,
		clock:        clock,
		pageSize:     pageSize,
		suggestLimit: suggestLimit,
	}
}

type CustomerListOutput struct {
	Items    []model.Customer `json:"items"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
	Query    string           `json:"query"`
	Category string           `json:"category"`
}

// Listは顧客一覧。商品と同じエンジンだが、顧客に在庫・期限カテゴリはない。
func (u *CustomerUsecase) List(ctx context.Context, merchantID, userID string, in ListInput) (CustomerListOutput, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return CustomerListOutput{}, err
	}
	if len(in.Q) > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	category, ok := listview.ParseCategory(in.Category)
	if !ok || (category != listview.CategoryAll && category != listview.CategoryInactive) {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	sess, err := u.session(merchantID)
	if err != nil {
		return CustomerListOutput{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := u.ensureLoaded(ctx, sess, merchantID, in.Refresh); err != nil {
		return CustomerListOutput{}, err
	}

	sess.engine.SetQuery(strings.TrimSpace(in.Q))
	sess.engine.SetCategory(category)

	return u.output(sess), nil
}

func (u *CustomerUsecase) More(ctx context.Context, merchantID, userID string) (CustomerListOutput, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return CustomerListOutput{}, err
	}

	sess, err := u.session(merchantID)
	if err != nil {
		return CustomerListOutput{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := u.ensureLoaded(ctx, sess, merchantID, false); err != nil {
		return CustomerListOutput{}, err
	}

	sess.engine.Grow()
	return u.output(sess), nil
}

func (u *CustomerUsecase) Suggest(ctx context.Context, merchantID, userID, q string) ([]model.Customer, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	sess, err := u.session(merchantID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := u.ensureLoaded(ctx, sess, merchantID, false); err != nil {
		return nil, err
	}

	items := sess.engine.Suggest(q)
	if items == nil {
		items = []model.Customer{}
	}
	return items, nil
}

func (u *CustomerUsecase) Get(ctx context.Context, merchantID, userID, customerID string) (*model.Customer, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	c, err := u.customerRepo.FindByID(ctx, merchantID, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type CustomerInput struct {
	Name     string
	Phone    string
	Email    string
	Address  string
	Note     string
	IsActive bool
}

func (u *CustomerUsecase) Create(ctx context.Context, merchantID, userID string, in CustomerInput) (*model.Customer, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}

	now := u.clock.Now()
	c := &model.Customer{
		ID:         u.idGen.NewID(),
		MerchantID: merchantID,
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Address:    in.Address,
		Note:       in.Note,
		IsActive:   in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.customerRepo.Create(ctx, c); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.reconcileUpsert(merchantID, *c)
	return c, nil
}

func (u *CustomerUsecase) Update(ctx context.Context, merchantID, userID, customerID string, in CustomerInput) (*model.Customer, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}

	// CreatedAtを引き継ぐため既存行を先に読む
	existing, err := u.customerRepo.FindByID(ctx, merchantID, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c := &model.Customer{
		ID:         customerID,
		MerchantID: merchantID,
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Address:    in.Address,
		Note:       in.Note,
		IsActive:   in.IsActive,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  u.clock.Now(),
	}

	err = u.customerRepo.Update(ctx, c)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.reconcileUpsert(merchantID, *c)
	return c, nil
}

// 削除はADMIN以上
func (u *CustomerUsecase) Delete(ctx context.Context, merchantID, userID, customerID string) error {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return err
	}
	if customerID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	err := u.customerRepo.SoftDelete(ctx, merchantID, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.reconcileRemove(merchantID, customerID)
	return nil
}

func (u *CustomerUsecase) InvalidateSessions(merchantID string) {
	u.sessions.drop(merchantID)
}

// ---- 内部ヘルパ ----

// 顧客一覧は在庫・期限の設定に依存しないので、設定のDB読みは不要。
func (u *CustomerUsecase) session(merchantID string) (*listSession[model.Customer], error) {
	return u.sessions.getOrCreate(merchantID, func() (listview.Options, error) {
		return listview.Options{
			SearchFields: model.CustomerSearchFields,
			PageSize:     u.pageSize,
			SuggestLimit: u.suggestLimit,
			Now:          u.clock.Now,
		}, nil
	})
}

func (u *CustomerUsecase) ensureLoaded(ctx context.Context, sess *listSession[model.Customer], merchantID string, refresh bool) error {
	if sess.engine.Loaded() && !refresh {
		return nil
	}
	records, err := u.customerRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := sess.engine.Load(records); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "inconsistent records")
	}
	return nil
}

func (u *CustomerUsecase) output(sess *listSession[model.Customer]) CustomerListOutput {
	items := sess.engine.Visible()
	if items == nil {
		items = []model.Customer{}
	}
	return CustomerListOutput{
		Items:    items,
		Total:    sess.engine.FilteredLen(),
		HasMore:  sess.engine.HasMore(),
		Query:    sess.engine.Query(),
		Category: string(sess.engine.Category()),
	}
}

func (u *CustomerUsecase) reconcileUpsert(merchantID string, c model.Customer) {
	sess, ok := u.sessions.get(merchantID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.engine.Loaded() {
		sess.engine.Upsert(c)
	}
}

func (u *CustomerUsecase) reconcileRemove(merchantID, customerID string) {
	sess, ok := u.sessions.get(merchantID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.engine.Loaded() {
		sess.engine.Remove(customerID)
	}
}
