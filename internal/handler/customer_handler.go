package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchants/:merchantID/customers のAPI
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

// DI
func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/merchants/:merchantID/customers", h.list)
	g.POST("/merchants/:merchantID/customers/more", h.more)
	g.GET("/merchants/:merchantID/customers/suggest", h.suggest)
	g.GET("/merchants/:merchantID/customers/:customerID", h.detail)
	g.POST("/merchants/:merchantID/customers", h.create)
	g.PUT("/merchants/:merchantID/customers/:customerID", h.update)
	g.DELETE("/merchants/:merchantID/customers/:customerID", h.delete)
}

type customerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Note     string `json:"note"`
	IsActive bool   `json:"is_active"`
}

func (r customerRequest) toInput() usecase.CustomerInput {
	return usecase.CustomerInput{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Note:     r.Note,
		IsActive: r.IsActive,
	}
}

func (h *CustomerHandler) list(c echo.Context) error {
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

func (h *CustomerHandler) more(c echo.Context) error {
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

func (h *CustomerHandler) suggest(c echo.Context) error {
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

func (h *CustomerHandler) detail(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	cust, err := h.uc.Get(c.Request().Context(), c.Param("merchantID"), userID, c.Param("customerID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cust, err := h.uc.Create(c.Request().Context(), c.Param("merchantID"), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cust, err := h.uc.Update(c.Request().Context(), c.Param("merchantID"), userID, c.Param("customerID"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), c.Param("merchantID"), userID, c.Param("customerID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
