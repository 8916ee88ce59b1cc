package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListActiveQuarters — GET /api/quarters/active, открытые для самозаписи.
func (h *Handler) ListActiveQuarters(c *gin.Context) {
	quarters, err := h.Catalog.ListQuarters(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(quarters))
	for i := range quarters {
		out = append(out, quarterJSON(&quarters[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quarters": out})
}

// ListQuarters — GET /api/quarters (админ), все кварталы.
func (h *Handler) ListQuarters(c *gin.Context) {
	quarters, err := h.Catalog.ListQuarters(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(quarters))
	for i := range quarters {
		out = append(out, quarterJSON(&quarters[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quarters": out})
}

// ListQuarterSlots — GET /api/quarters/:id/slots, каталог с занятостью.
func (h *Handler) ListQuarterSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid quarter id"})
		return
	}

	quarter, err := h.Catalog.GetQuarter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	slots, err := h.Catalog.ListSlotsWithAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(slots))
	for i := range slots {
		entry := slotJSON(&slots[i].Slot)
		entry["available"] = slots[i].Available
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quarter": quarterJSON(quarter),
		"slots":   out,
	})
}

type createQuarterRequest struct {
	Year        int    `json:"year" binding:"required"`
	Number      int    `json:"quarter_number" binding:"required"`
	MeetingDate string `json:"meeting_date" binding:"required"`
	Weeks       int    `json:"weeks"`
}

// CreateQuarter — POST /api/quarters (админ). Каталог слотов
// генерируется сразу при создании.
func (h *Handler) CreateQuarter(c *gin.Context) {
	var req createQuarterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	meetingDate, err := time.Parse("2006-01-02", req.MeetingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	quarter, err := h.Catalog.CreateQuarter(c.Request.Context(), req.Year, req.Number, meetingDate, req.Weeks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "quarter": quarterJSON(quarter)})
}

type updateQuarterRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UpdateQuarter — PUT /api/quarters/:id (админ), флаг активности.
func (h *Handler) UpdateQuarter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid quarter id"})
		return
	}

	var req updateQuarterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Catalog.SetQuarterActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	quarter, err := h.Catalog.GetQuarter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quarter": quarterJSON(quarter)})
}
