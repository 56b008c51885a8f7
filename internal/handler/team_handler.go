package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchants/:merchantID/members のAPI
type TeamHandler struct {
	uc *usecase.TeamUsecase
}

// DI
func NewTeamHandler(uc *usecase.TeamUsecase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

func (h *TeamHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/merchants/:merchantID/members", h.list)
	g.POST("/merchants/:merchantID/members", h.add)
	g.PUT("/merchants/:merchantID/members/:userID/role", h.changeRole)
	g.DELETE("/merchants/:merchantID/members/:userID", h.deactivate)
}

type addMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *TeamHandler) list(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	members, err := h.uc.ListMembers(c.Request().Context(), c.Param("merchantID"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) add(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	m, err := h.uc.AddMember(c.Request().Context(), c.Param("merchantID"), userID, usecase.AddMemberInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *TeamHandler) changeRole(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ChangeRole(c.Request().Context(), c.Param("merchantID"), userID, c.Param("userID"), req.Role); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TeamHandler) deactivate(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Deactivate(c.Request().Context(), c.Param("merchantID"), userID, c.Param("userID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
