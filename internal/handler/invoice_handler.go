package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchants/:merchantID/invoices のAPI
type InvoiceHandler struct {
	uc *usecase.InvoiceUsecase
}

// DI
func NewInvoiceHandler(uc *usecase.InvoiceUsecase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

func (h *InvoiceHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/merchants/:merchantID/invoices", h.issue)
	g.GET("/merchants/:merchantID/invoices", h.list)
	g.GET("/merchants/:merchantID/invoices/:invoiceID", h.detail)
	g.POST("/merchants/:merchantID/invoices/:invoiceID/pay", h.pay)
	g.POST("/merchants/:merchantID/invoices/:invoiceID/void", h.void)
}

func (h *InvoiceHandler) issue(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.IssueInvoiceInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	inv, err := h.uc.Issue(c.Request().Context(), c.Param("merchantID"), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) list(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	invoices, err := h.uc.List(c.Request().Context(), c.Param("merchantID"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) detail(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inv, err := h.uc.Get(c.Request().Context(), c.Param("merchantID"), userID, c.Param("invoiceID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) pay(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.MarkPaid(c.Request().Context(), c.Param("merchantID"), userID, c.Param("invoiceID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InvoiceHandler) void(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Void(c.Request().Context(), c.Param("merchantID"), userID, c.Param("invoiceID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
