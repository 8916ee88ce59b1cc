package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

type createRegistrationRequest struct {
	QuarterID        string `json:"quarter_id" binding:"required"`
	Week             int    `json:"week" binding:"required"`
	TimeWindow       string `json:"time_window" binding:"required"`
	SpeakerName      string `json:"speaker_name" binding:"required"`
	SpeakerEmail     string `json:"speaker_email" binding:"required"`
	SpeakerPhone     string `json:"speaker_phone"`
	Specialty        string `json:"specialty"`
	TopicTitle       string `json:"topic_title"`
	TopicDescription string `json:"topic_description"`
}

// CreateRegistration — POST /api/registrations, самозапись спикера.
func (h *Handler) CreateRegistration(c *gin.Context) {
	var req createRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	quarterID, err := uuid.Parse(req.QuarterID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid quarter_id"})
		return
	}
	window, err := schedule.ParseWindow(req.TimeWindow)
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.Registration.Register(c.Request.Context(), quarterID, req.Week, window, schedule.Speaker{
		Name:             req.SpeakerName,
		Email:            req.SpeakerEmail,
		Phone:            req.SpeakerPhone,
		Specialty:        req.Specialty,
		TopicTitle:       req.TopicTitle,
		TopicDescription: req.TopicDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"registration": bookingJSON(booking),
		"message":      "Registration successful! You will receive a confirmation email shortly.",
	})
}

// GetRegistration — GET /api/registrations/:id.
func (h *Handler) GetRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
		return
	}

	booking, err := h.Registration.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registration": bookingJSON(booking)})
}

type withdrawRequest struct {
	SpeakerEmail string `json:"speaker_email" binding:"required"`
}

// WithdrawRegistration — POST /api/registrations/:id/withdraw,
// самостоятельный отзыв брони спикером по его email.
func (h *Handler) WithdrawRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
		return
	}

	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Registration.CancelOwn(c.Request.Context(), id, req.SpeakerEmail); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration withdrawn"})
}
