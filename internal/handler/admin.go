package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin — POST /api/admin/login.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username and password required"})
		return
	}

	token, admin, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin": gin.H{
			"id":       admin.ID.String(),
			"username": admin.Username,
			"email":    admin.Email,
		},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword — POST /api/admin/change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "current and new password required"})
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), capability(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// ListRegistrations — GET /api/registrations (админ), фильтр + пагинация.
func (h *Handler) ListRegistrations(c *gin.Context) {
	f := repository.BookingFilter{
		QuarterID:    c.Query("quarter_id"),
		SpeakerEmail: c.Query("speaker_email"),
		Status:       model.BookingStatus(c.Query("status")),
	}
	if w := c.Query("week"); w != "" {
		week, err := strconv.Atoi(w)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid week"})
			return
		}
		f.Week = week
	}

	bookings, err := h.Admin.Query(c.Request.Context(), capability(c), f)
	if err != nil {
		respondError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pg := schedule.Paginate(bookings, page, pageSize)

	out := make([]gin.H, 0, len(pg.Items))
	for i := range pg.Items {
		out = append(out, bookingJSON(&pg.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"registrations": out,
		"page":          pg.Page,
		"page_size":     pg.PageSize,
		"total":         pg.Total,
		"has_next":      pg.HasNext,
		"has_prev":      pg.HasPrev,
	})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelRegistration — POST /api/registrations/:id/cancel (админ).
func (h *Handler) CancelRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
		return
	}

	var req cancelRequest
	_ = c.ShouldBindJSON(&req) // тело необязательно

	if err := h.Admin.Cancel(c.Request.Context(), capability(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration cancelled"})
}

type reassignRequest struct {
	NewSlotID string `json:"new_slot_id" binding:"required"`
}

// ReassignRegistration — POST /api/registrations/:id/reassign (админ).
func (h *Handler) ReassignRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid registration id"})
		return
	}

	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	newSlotID, err := uuid.Parse(req.NewSlotID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid new_slot_id"})
		return
	}

	booking, err := h.Admin.Reassign(c.Request.Context(), capability(c), id, newSlotID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registration": bookingJSON(booking)})
}

type clearWeekRequest struct {
	QuarterID string `json:"quarter_id" binding:"required"`
	Week      int    `json:"week" binding:"required"`
	Reason    string `json:"reason"`
}

// ClearWeek — POST /api/admin/clear-week: отмена всех броней недели
// с поэлементным отчётом, без отката успешных пунктов.
func (h *Handler) ClearWeek(c *gin.Context) {
	var req clearWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	quarterID, err := uuid.Parse(req.QuarterID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid quarter_id"})
		return
	}

	outcomes, err := h.Admin.ClearWeek(c.Request.Context(), capability(c), quarterID, req.Week, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		entry := gin.H{
			"booking_id":    o.BookingID.String(),
			"speaker_email": o.SpeakerEmail,
			"ok":            o.Err == "",
		}
		if o.Err != "" {
			entry["error"] = o.Err
			failed++
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"outcomes": out,
		"failed":   failed,
	})
}

// AdminDashboard — GET /api/admin/dashboard.
func (h *Handler) AdminDashboard(c *gin.Context) {
	d, err := h.Admin.Dashboard(c.Request.Context(), capability(c))
	if err != nil {
		respondError(c, err)
		return
	}

	recent := make([]gin.H, 0, len(d.Recent))
	for i := range d.Recent {
		recent = append(recent, bookingJSON(&d.Recent[i]))
	}
	quarters := make([]gin.H, 0, len(d.QuarterSummaries))
	for _, qs := range d.QuarterSummaries {
		entry := quarterJSON(&qs.Quarter)
		entry["registration_count"] = qs.ConfirmedCount
		entry["total_slots"] = qs.TotalSlots
		quarters = append(quarters, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashboard": gin.H{
			"summary": gin.H{
				"total_quarters":      d.TotalQuarters,
				"active_quarters":     d.ActiveQuarters,
				"total_registrations": d.ConfirmedBookings,
			},
			"recent_registrations": recent,
			"quarters":             quarters,
		},
	})
}

// ExportRegistrations — GET /api/admin/export/registrations.csv.
func (h *Handler) ExportRegistrations(c *gin.Context) {
	f := repository.BookingFilter{
		QuarterID: c.Query("quarter_id"),
		Status:    model.BookingStatus(c.Query("status")),
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="registrations.csv"`)
	if err := h.Export.WriteCSV(c.Request.Context(), c.Writer, f); err != nil {
		respondError(c, err)
		return
	}
}
