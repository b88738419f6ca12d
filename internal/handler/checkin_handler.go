package handler

import (
	"errors"
	"net/http"

	"github.com/campusflow/ticketing/internal/dto"
	"github.com/campusflow/ticketing/internal/middleware"
	"github.com/campusflow/ticketing/internal/qr"
	"github.com/campusflow/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckInHandler struct {
	svc service.CheckInService
}

func NewCheckInHandler(svc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

func (h *CheckInHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/checkin", middleware.RequireUser)
	g.POST("/qr", h.CheckInQR)
	g.POST("/manual", h.CheckInManual)
	g.GET("/event/:id", h.ListCheckIns)
	g.GET("/event/:id/stats", h.Stats)
}

func (h *CheckInHandler) CheckInQR(c echo.Context) error {
	var req dto.CheckInQRRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid QR code")
	}

	redemption, err := h.svc.RedeemQR(c.Request().Context(), req.QRData, middleware.UserID(c))
	if err != nil {
		return redemptionError(err)
	}

	return c.JSON(http.StatusOK, dto.CheckInResult{CheckIn: toCheckInResponse(redemption)})
}

func (h *CheckInHandler) CheckInManual(c echo.Context) error {
	var req dto.CheckInManualRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.EventID == "" || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "eventId and userId are required")
	}

	redemption, err := h.svc.RedeemManual(c.Request().Context(), req.EventID, req.UserID, middleware.UserID(c))
	if err != nil {
		return redemptionError(err)
	}

	return c.JSON(http.StatusOK, dto.CheckInResult{CheckIn: toCheckInResponse(redemption)})
}

func (h *CheckInHandler) ListCheckIns(c echo.Context) error {
	redemptions, err := h.svc.EventCheckIns(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch check-ins")
	}

	records := make([]dto.CheckInRecord, len(redemptions))
	for i, r := range redemptions {
		records[i] = dto.CheckInRecord{
			ID:          r.CheckIn.ID,
			TicketID:    r.CheckIn.TicketID,
			EventID:     r.CheckIn.EventID,
			UserID:      r.CheckIn.UserID,
			Method:      r.CheckIn.Method,
			CheckedInBy: r.CheckIn.CheckedInBy,
			CheckedInAt: r.CheckIn.CheckedInAt,
		}
		if r.Attendee != nil {
			records[i].Attendee = &dto.AttendeeDetail{
				ID:        r.Attendee.ID,
				Name:      r.Attendee.Name,
				Email:     r.Attendee.Email,
				AvatarURL: r.Attendee.AvatarURL,
			}
		}
	}

	return c.JSON(http.StatusOK, dto.CheckInListResponse{CheckIns: records, Total: len(records)})
}

func (h *CheckInHandler) Stats(c echo.Context) error {
	stats, err := h.svc.EventStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// redemptionError maps every redemption failure mode to its distinct,
// user-facing response. A bad scan, a missing ticket and a spent ticket must
// stay distinguishable at the door.
func redemptionError(err error) error {
	switch {
	case errors.Is(err, qr.ErrInvalidPayload):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid QR code")
	case errors.Is(err, service.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
	case errors.Is(err, service.ErrNoActiveTicket):
		return echo.NewHTTPError(http.StatusNotFound, "No active ticket found for this user")
	case errors.Is(err, service.ErrTicketAlreadyUsed):
		return echo.NewHTTPError(http.StatusConflict, "Ticket already used")
	case errors.Is(err, service.ErrTicketCancelled):
		return echo.NewHTTPError(http.StatusConflict, "Ticket was cancelled")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return echo.NewHTTPError(http.StatusConflict, "Already checked in")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Check-in failed")
	}
}

func toCheckInResponse(r *service.Redemption) dto.CheckInResponse {
	resp := dto.CheckInResponse{
		ID:          r.CheckIn.ID,
		Method:      r.CheckIn.Method,
		CheckedInAt: r.CheckIn.CheckedInAt,
	}
	if r.Attendee != nil {
		resp.Attendee = &dto.Attendee{Name: r.Attendee.Name, Email: r.Attendee.Email}
	}
	return resp
}
