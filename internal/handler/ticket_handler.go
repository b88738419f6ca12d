package handler

import (
	"errors"
	"net/http"

	"github.com/campusflow/ticketing/internal/dto"
	"github.com/campusflow/ticketing/internal/middleware"
	"github.com/campusflow/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(svc service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func (h *TicketHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/events/:id/rsvp", h.RSVP, middleware.RequireUser)
}

func (h *TicketHandler) RSVP(c echo.Context) error {
	eventID := c.Param("id")
	userID := middleware.UserID(c)

	ticket, err := h.svc.RSVP(c.Request().Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, "Already registered for this event")
		case errors.Is(err, service.ErrEventFull):
			return echo.NewHTTPError(http.StatusConflict, "Event is full")
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Event not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to RSVP")
		}
	}

	return c.JSON(http.StatusCreated, dto.RSVPResponse{Ticket: dto.ToTicketResponse(ticket)})
}
