package handler

import (
	"net/http"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchants/:merchantID/products のAPI
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 認証済みグループにルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/merchants/:merchantID/products", h.list)
	g.POST("/merchants/:merchantID/products/more", h.more)
	g.GET("/merchants/:merchantID/products/suggest", h.suggest)
	g.GET("/merchants/:merchantID/products/:productID", h.detail)
	g.POST("/merchants/:merchantID/products", h.create)
	g.PUT("/merchants/:merchantID/products/:productID", h.update)
	g.DELETE("/merchants/:merchantID/products/:productID", h.delete)
}

type productRequest struct {
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Brand      string     `json:"brand"`
	Barcode    string     `json:"barcode"`
	Unit       string     `json:"unit"`
	Price      int64      `json:"price"`
	Stock      int64      `json:"stock"`
	MinStock   *int64     `json:"min_stock"`
	ExpiryDate *time.Time `json:"expiry_date"`
	IsActive   bool       `json:"is_active"`
}

func (r productRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:       r.Name,
		Category:   r.Category,
		Brand:      r.Brand,
		Barcode:    r.Barcode,
		Unit:       r.Unit,
		Price:      r.Price,
		Stock:      r.Stock,
		MinStock:   r.MinStock,
		ExpiryDate: r.ExpiryDate,
		IsActive:   r.IsActive,
	}
}

func (h *ProductHandler) list(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), c.Param("merchantID"), userID, usecase.ListInput{
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Refresh:  c.QueryParam("refresh") == "true",
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) more(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.More(c.Request().Context(), c.Param("merchantID"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) suggest(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	items, err := h.uc.Suggest(c.Request().Context(), c.Param("merchantID"), userID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.Get(c.Request().Context(), c.Param("merchantID"), userID, c.Param("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Create(c.Request().Context(), c.Param("merchantID"), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Update(c.Request().Context(), c.Param("merchantID"), userID, c.Param("productID"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), c.Param("merchantID"), userID, c.Param("productID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
