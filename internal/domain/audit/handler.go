package audit

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medcrm/medcrm/internal/platform/auth"
	"github.com/medcrm/medcrm/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit/events", h.ListEvents, auth.RequirePermission("pages.audit.access"))

	api.POST("/gdpr/requests", h.CreateGDPRRequest, auth.RequirePermission("pages.audit.access"))
	api.GET("/gdpr/requests", h.ListGDPRRequests, auth.RequirePermission("pages.audit.access"))
	api.GET("/gdpr/requests/:id", h.GetGDPRRequest, auth.RequirePermission("pages.audit.access"))

	// Erasure approval is restricted by role, not capability.
	api.POST("/gdpr/requests/:id/resolve", h.ResolveGDPRRequest, auth.RequireRole("admin"))
}

func (h *Handler) ListEvents(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := EventFilter{
		ActorID: c.QueryParam("actor_id"),
		Action:  c.QueryParam("action"),
	}
	if since := c.QueryParam("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid since timestamp")
		}
		f.Since = t
	}
	if until := c.QueryParam("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid until timestamp")
		}
		f.Until = t
	}

	events, total, err := h.svc.ListEvents(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateGDPRRequest(c echo.Context) error {
	var req GDPRRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if id := auth.IdentityFromContext(c.Request().Context()); id != nil {
		req.RequestedBy = id.SubjectID
	}
	if err := h.svc.CreateGDPRRequest(c.Request().Context(), &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetGDPRRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := h.svc.GetGDPRRequest(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "request not found")
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) ListGDPRRequests(c echo.Context) error {
	pg := pagination.FromContext(c)
	reqs, total, err := h.svc.ListGDPRRequests(c.Request().Context(), c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reqs, total, pg.Limit, pg.Offset))
}

type resolveRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

func (h *Handler) ResolveGDPRRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in resolveRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reviewer := ""
	if identity := auth.IdentityFromContext(c.Request().Context()); identity != nil {
		reviewer = identity.SubjectID
	}
	req, err := h.svc.ResolveGDPRRequest(c.Request().Context(), id, in.Status, reviewer, in.Reason)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, req)
}
