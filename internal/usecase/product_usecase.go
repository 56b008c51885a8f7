package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/listview"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	merchantRepo repo.MerchantRepository
	guard        memberGuard
	sessions     *listSessions[model.Product]
	idGen        IDGenerator
	clock        Clock
	pageSize     int
	suggestLimit int
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	merchantRepo repo.MerchantRepository,
	memberRepo repo.MemberRepository,
	idGen IDGenerator,
	clock Clock,
	pageSize int,
	suggestLimit int,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		merchantRepo: merchantRepo,
		guard:        memberGuard{memberRepo: memberRepo},
		sessions:     newListSessions[model.Product](),
		idGen:        idGen,
		clock:        clock,
		pageSize:     pageSize,
		suggestLimit: suggestLimit,
	}
}

// GET /merchants/:id/products の入力
type ListInput struct {
	Q        string
	Category string
	//trueならストアを再フェッチで総入れ替え
	Refresh bool
}

type ProductListOutput struct {
	Items    []model.Product `json:"items"`
	Total    int             `json:"total"`
	HasMore  bool            `json:"has_more"`
	Query    string          `json:"query"`
	Category string          `json:"category"`
}

// Listは一覧画面の表示1回分。クエリ・カテゴリをエンジンに反映して
// 可視スライスを返す。絞り込み・並び替え・ページングは全部メモリ上。
func (u *ProductUsecase) List(ctx context.Context, merchantID, userID string, in ListInput) (ProductListOutput, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return ProductListOutput{}, err
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	category, ok := listview.ParseCategory(in.Category)
	if !ok {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	sess, err := u.session(ctx, merchantID)
	if err != nil {
		return ProductListOutput{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := u.ensureLoaded(ctx, sess, merchantID, in.Refresh); err != nil {
		return ProductListOutput{}, err
	}

	sess.engine.SetQuery(strings.TrimSpace(in.Q))
	sess.engine.SetCategory(category)

	return u.output(sess), nil
}

// Moreは「さらに読み込む」。ウィンドウを1ページ分だけ進めて返す。
// 連打されても1回分しか進まない。
func (u *ProductUsecase) More(ctx context.Context, merchantID, userID string) (ProductListOutput, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return ProductListOutput{}, err
	}

	sess, err := u.session(ctx, merchantID)
	if err != nil {
		return ProductListOutput{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := u.ensureLoaded(ctx, sess, merchantID, false); err != nil {
		return ProductListOutput{}, err
	}

	sess.engine.Grow()
	return u.output(sess), nil
}

// Suggestは検索入力中のオートコンプリート。現在の絞り込みとは独立。
func (u *ProductUsecase) Suggest(ctx context.Context, merchantID, userID, q string) ([]model.Product, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	sess, err := u.session(ctx, merchantID)
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
		items = []model.Product{}
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, merchantID, userID, productID string) (*model.Product, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}

	p, err := u.productRepo.FindByID(ctx, merchantID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type ProductInput struct {
	Name       string
	Category   string
	Brand      string
	Barcode    string
	Unit       string
	Price      int64
	Stock      int64
	MinStock   *int64
	ExpiryDate *time.Time
	IsActive   bool
}

func (u *ProductUsecase) Create(ctx context.Context, merchantID, userID string, in ProductInput) (*model.Product, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	now := u.clock.Now()
	p := &model.Product{
		ID:         u.idGen.NewID(),
		MerchantID: merchantID,
		Name:       strings.TrimSpace(in.Name),
		Category:   strings.TrimSpace(in.Category),
		Brand:      strings.TrimSpace(in.Brand),
		Barcode:    strings.TrimSpace(in.Barcode),
		Unit:       in.Unit,
		Price:      in.Price,
		Stock:      in.Stock,
		MinStock:   in.MinStock,
		ExpiryDate: in.ExpiryDate,
		IsActive:   in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.productRepo.Create(ctx, p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//成功した変更をローカルにも反映（再フェッチしない）
	u.reconcileUpsert(merchantID, *p)
	return p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, merchantID, userID, productID string, in ProductInput) (*model.Product, error) {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleStaff); err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	// CreatedAtを引き継ぐため既存行を先に読む。入力だけで組み立てると
	// レスポンスとセッション上のレコードがゼロ値のCreatedAtになる。
	existing, err := u.productRepo.FindByID(ctx, merchantID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p := &model.Product{
		ID:         productID,
		MerchantID: merchantID,
		Name:       strings.TrimSpace(in.Name),
		Category:   strings.TrimSpace(in.Category),
		Brand:      strings.TrimSpace(in.Brand),
		Barcode:    strings.TrimSpace(in.Barcode),
		Unit:       in.Unit,
		Price:      in.Price,
		Stock:      in.Stock,
		MinStock:   in.MinStock,
		ExpiryDate: in.ExpiryDate,
		IsActive:   in.IsActive,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  u.clock.Now(),
	}

	err = u.productRepo.Update(ctx, p)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.reconcileUpsert(merchantID, *p)
	return p, nil
}

// 削除はADMIN以上
func (u *ProductUsecase) Delete(ctx context.Context, merchantID, userID, productID string) error {
	if _, err := u.guard.require(ctx, merchantID, userID, model.RoleAdmin); err != nil {
		return err
	}
	if productID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, merchantID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.reconcileRemove(merchantID, productID)
	return nil
}

// 設定変更後に呼ばれ、次のアクセスでエンジンを作り直させる
func (u *ProductUsecase) InvalidateSessions(merchantID string) {
	u.sessions.drop(merchantID)
}

// ---- 内部ヘルパ ----

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "min_stock must be >= 0")
	}
	return nil
}

// セッション取得。初回はマーチャント設定からエンジンの設定を組み立てる。
func (u *ProductUsecase) session(ctx context.Context, merchantID string) (*listSession[model.Product], error) {
	return u.sessions.getOrCreate(merchantID, func() (listview.Options, error) {
		settings, err := u.merchantRepo.GetSettings(ctx, merchantID)
		if errors.Is(err, repo.ErrNotFound) {
			return listview.Options{}, NewHTTPError(http.StatusNotFound, "merchant not found")
		}
		if err != nil {
			return listview.Options{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return listview.Options{
			SearchFields:    model.ProductSearchFields,
			PageSize:        u.pageSize,
			SuggestLimit:    u.suggestLimit,
			ExpiryWarnDays:  settings.ExpiryWarnDays,
			DefaultMinStock: settings.DefaultMinStock,
			Now:             u.clock.Now,
		}, nil
	})
}

// 未ロード、または明示的なリフレッシュ時だけ全件フェッチする。
// sess.muを握った状態で呼ぶこと。
func (u *ProductUsecase) ensureLoaded(ctx context.Context, sess *listSession[model.Product], merchantID string, refresh bool) error {
	if sess.engine.Loaded() && !refresh {
		return nil
	}
	records, err := u.productRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := sess.engine.Load(records); err != nil {
		//テナント混在はフェッチ側のバグ
		return NewHTTPError(http.StatusInternalServerError, "inconsistent records")
	}
	return nil
}

func (u *ProductUsecase) output(sess *listSession[model.Product]) ProductListOutput {
	items := sess.engine.Visible()
	if items == nil {
		items = []model.Product{}
	}
	return ProductListOutput{
		Items:    items,
		Total:    sess.engine.FilteredLen(),
		HasMore:  sess.engine.HasMore(),
		Query:    sess.engine.Query(),
		Category: string(sess.engine.Category()),
	}
}

func (u *ProductUsecase) reconcileUpsert(merchantID string, p model.Product) {
	sess, ok := u.sessions.get(merchantID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.engine.Loaded() {
		sess.engine.Upsert(p)
	}
}

func (u *ProductUsecase) reconcileRemove(merchantID, productID string) {
	sess, ok := u.sessions.get(merchantID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.engine.Loaded() {
		sess.engine.Remove(productID)
	}
}
