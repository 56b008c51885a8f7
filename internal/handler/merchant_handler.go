package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchants のAPI（開設・プロフィール・設定）
type MerchantHandler struct {
	uc *usecase.MerchantUsecase
}

// DI
func NewMerchantHandler(uc *usecase.MerchantUsecase) *MerchantHandler {
	return &MerchantHandler{uc: uc}
}

func (h *MerchantHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/merchants", h.onboard)
	g.GET("/merchants/:merchantID", h.get)
	g.PUT("/merchants/:merchantID", h.update)
	g.GET("/merchants/:merchantID/settings", h.getSettings)
	g.PUT("/merchants/:merchantID/settings", h.updateSettings)
	g.GET("/merchants/:merchantID/audit-logs", h.auditLogs)
}

type onboardRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type settingsRequest struct {
	Currency        string `json:"currency"`
	DefaultMinStock int64  `json:"default_min_stock"`
	ExpiryWarnDays  int    `json:"expiry_warn_days"`
	InvoicePrefix   string `json:"invoice_prefix"`
}

func (h *MerchantHandler) onboard(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req onboardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	m, err := h.uc.Onboard(c.Request().Context(), userID, usecase.OnboardInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MerchantHandler) get(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	m, err := h.uc.Get(c.Request().Context(), c.Param("merchantID"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MerchantHandler) update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req onboardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	m, err := h.uc.Update(c.Request().Context(), c.Param("merchantID"), userID, usecase.MerchantUpdateInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MerchantHandler) getSettings(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.GetSettings(c.Request().Context(), c.Param("merchantID"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *MerchantHandler) auditLogs(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), c.Param("merchantID"), userID, c.QueryParam("action"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *MerchantHandler) updateSettings(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.UpdateSettings(c.Request().Context(), c.Param("merchantID"), userID, usecase.SettingsInput{
		Currency:        req.Currency,
		DefaultMinStock: req.DefaultMinStock,
		ExpiryWarnDays:  req.ExpiryWarnDays,
		InvoicePrefix:   req.InvoicePrefix,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
