package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testMerchant = "merchant-1"
	testStaff    = "user-staff"
	testAdmin    = "user-admin"
)

func newProductUC(pRepo *MockProductRepo, mRepo *MockMerchantRepo, memRepo *MockMemberRepo, pageSize int) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(pRepo, mRepo, memRepo, &seqIDGen{}, &fixedClock{t: testNow}, pageSize, 5)
}

func stubSettings(mRepo *MockMerchantRepo) {
	mRepo.On("GetSettings", mock.Anything, testMerchant).Return(&model.MerchantSettings{
		MerchantID:      testMerchant,
		Currency:        "USD",
		DefaultMinStock: 5,
		ExpiryWarnDays:  30,
	}, nil)
}

func makeProducts(n int) []model.Product {
	items := make([]model.Product, 0, n)
	base := testNow.Add(-24 * time.Hour)
	for i := 0; i < n; i++ {
		items = append(items, model.Product{
			ID:         "p-" + string(rune('a'+i%26)) + "-" + string(rune('0'+i/26)),
			MerchantID: testMerchant,
			Name:       "Item",
			Stock:      100,
			IsActive:   true,
			UpdatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}

func TestProductUsecase_List_ForbiddenForNonMember(t *testing.T) {
	memRepo := new(MockMemberRepo)
	memRepo.On("FindByMerchantAndUser", mock.Anything, testMerchant, "outsider").Return(nil, repo.ErrNotFound)

	uc := newProductUC(new(MockProductRepo), new(MockMerchantRepo), memRepo, 20)

	_, err := uc.List(context.Background(), testMerchant, "outsider", usecase.ListInput{})
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestProductUsecase_List_InvalidCategory(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newProductUC(new(MockProductRepo), new(MockMerchantRepo), memRepo, 20)

	_, err := uc.List(context.Background(), testMerchant, testStaff, usecase.ListInput{Category: "bogus"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// 2回目のListは再フェッチしない（エンジンのストアを使い回す）
func TestProductUsecase_List_LoadsOnce(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(makeProducts(3), nil).Once()

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	out, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Items, 3)
	assert.False(t, out.HasMore)

	// クエリを変えてもDBには行かない
	out, err = uc.List(ctx, testMerchant, testStaff, usecase.ListInput{Q: "Item"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_List_RefreshRefetches(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(makeProducts(3), nil).Twice()

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	_, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)

	_, err = uc.List(ctx, testMerchant, testStaff, usecase.ListInput{Refresh: true})
	require.NoError(t, err)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_More_GrowsWindow(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(makeProducts(25), nil).Once()

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	out, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 20)
	assert.True(t, out.HasMore)

	out, err = uc.More(ctx, testMerchant, testStaff)
	require.NoError(t, err)
	assert.Len(t, out.Items, 25)
	assert.False(t, out.HasMore)

	pRepo.AssertExpectations(t)
}

// 作成成功後はセッションへ1件だけ反映され、再フェッチしない
func TestProductUsecase_Create_ReconcilesSession(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(makeProducts(2), nil).Once()
	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.Name == "Coffee" && p.MerchantID == testMerchant
	})).Return(nil)

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	_, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)

	created, err := uc.Create(ctx, testMerchant, testStaff, usecase.ProductInput{
		Name:     " Coffee ",
		Price:    100,
		Stock:    10,
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", created.Name)

	out, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	// 更新時刻が最新なので新しい商品が先頭
	assert.Equal(t, created.ID, out.Items[0].ID)

	pRepo.AssertExpectations(t)
}

// 更新後もセッション上のレコードがDBの行と一致すること。
// 特にCreatedAtが入力から作れないので既存行から引き継ぐ。
func TestProductUsecase_Update_PreservesCreatedAt(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	items := makeProducts(2)
	created := testNow.Add(-48 * time.Hour)
	items[0].CreatedAt = created
	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(items, nil).Once()
	pRepo.On("FindByID", mock.Anything, testMerchant, items[0].ID).Return(&items[0], nil)
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == items[0].ID && p.CreatedAt.Equal(created)
	})).Return(nil)

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	_, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, testMerchant, testStaff, items[0].ID, usecase.ProductInput{
		Name:     "Renamed",
		Price:    100,
		Stock:    10,
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)

	// セッションに反映されたレコードもCreatedAtがゼロ値になっていない
	out, err := uc.List(ctx, testMerchant, testStaff, usecase.ListInput{})
	require.NoError(t, err)
	require.Equal(t, items[0].ID, out.Items[0].ID)
	assert.Equal(t, created, out.Items[0].CreatedAt)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_Update_NotFound(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	pRepo := new(MockProductRepo)
	pRepo.On("FindByID", mock.Anything, testMerchant, "missing").Return(nil, repo.ErrNotFound)

	uc := newProductUC(pRepo, new(MockMerchantRepo), memRepo, 20)

	_, err := uc.Update(context.Background(), testMerchant, testStaff, "missing", usecase.ProductInput{
		Name: "x", IsActive: true,
	})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_Create_Validation(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newProductUC(new(MockProductRepo), new(MockMerchantRepo), memRepo, 20)

	_, err := uc.Create(context.Background(), testMerchant, testStaff, usecase.ProductInput{Name: " "})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.Create(context.Background(), testMerchant, testStaff, usecase.ProductInput{Name: "x", Price: -1})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_Delete_RequiresAdmin(t *testing.T) {
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)

	uc := newProductUC(new(MockProductRepo), new(MockMerchantRepo), memRepo, 20)

	err := uc.Delete(context.Background(), testMerchant, testStaff, "p-1")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestProductUsecase_Delete_ReconcilesSession(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testAdmin, model.RoleAdmin)
	stubSettings(mRepo)

	products := makeProducts(3)
	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(products, nil).Once()
	pRepo.On("SoftDelete", mock.Anything, testMerchant, products[0].ID).Return(nil)

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	_, err := uc.List(ctx, testMerchant, testAdmin, usecase.ListInput{})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, testMerchant, testAdmin, products[0].ID))

	out, err := uc.List(ctx, testMerchant, testAdmin, usecase.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_Suggest_LimitsResults(t *testing.T) {
	ctx := context.Background()

	pRepo := new(MockProductRepo)
	mRepo := new(MockMerchantRepo)
	memRepo := new(MockMemberRepo)
	stubMember(memRepo, testMerchant, testStaff, model.RoleStaff)
	stubSettings(mRepo)

	items := makeProducts(10)
	for i := range items {
		items[i].Name = "Coffee Beans"
	}
	pRepo.On("ListByMerchant", mock.Anything, testMerchant).Return(items, nil).Once()

	uc := newProductUC(pRepo, mRepo, memRepo, 20)

	got, err := uc.Suggest(ctx, testMerchant, testStaff, "coff")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = uc.Suggest(ctx, testMerchant, testStaff, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	pRepo.AssertExpectations(t)
}
