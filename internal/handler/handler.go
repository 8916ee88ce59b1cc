package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
	"github.com/shermerautomation/hems-scheduler/internal/service"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	Catalog      *service.CatalogService
	Registration *service.RegistrationService
	Admin        *service.AdminService
	Export       *service.ExportService
	Auth         *service.AuthService
}

func NewHandler(
	catalog *service.CatalogService,
	registration *service.RegistrationService,
	admin *service.AdminService,
	export *service.ExportService,
	auth *service.AuthService,
) *Handler {
	return &Handler{
		Catalog:      catalog,
		Registration: registration,
		Admin:        admin,
		Export:       export,
		Auth:         auth,
	}
}

// Router собирает маршруты API.
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		api.GET("/quarters/active", h.ListActiveQuarters)
		api.GET("/quarters/:id/slots", h.ListQuarterSlots)
		api.POST("/registrations", h.CreateRegistration)
		api.GET("/registrations/:id", h.GetRegistration)
		api.POST("/registrations/:id/withdraw", h.WithdrawRegistration)

		api.POST("/admin/login", h.AdminLogin)

		admin := api.Group("", h.adminAuth())
		{
			admin.GET("/quarters", h.ListQuarters)
			admin.POST("/quarters", h.CreateQuarter)
			admin.PUT("/quarters/:id", h.UpdateQuarter)

			admin.GET("/registrations", h.ListRegistrations)
			admin.POST("/registrations/:id/cancel", h.CancelRegistration)
			admin.POST("/registrations/:id/reassign", h.ReassignRegistration)

			admin.POST("/admin/clear-week", h.ClearWeek)
			admin.GET("/admin/dashboard", h.AdminDashboard)
			admin.GET("/admin/export/registrations.csv", h.ExportRegistrations)
			admin.POST("/admin/change-password", h.ChangePassword)
		}
	}

	return r
}

const capabilityKey = "admin_capability"

// adminAuth проверяет bearer-токен и кладёт Capability в контекст запроса.
func (h *Handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin authentication required"})
			return
		}
		cap, err := h.Auth.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin authentication required"})
			return
		}
		c.Set(capabilityKey, cap)
		c.Next()
	}
}

func capability(c *gin.Context) service.Capability {
	if v, ok := c.Get(capabilityKey); ok {
		if cap, ok := v.(service.Capability); ok {
			return cap
		}
	}
	return service.Capability{}
}

// respondError переводит доменные ошибки в HTTP-статусы. Всё,
// что не классифицировано, считается ошибкой хранилища: логируется
// и наружу уходит общим сообщением.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "this slot is already booked"})
	case errors.Is(err, schedule.ErrSpeakerConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "you already have a commitment that week"})
	case errors.Is(err, schedule.ErrQuarterNotFound),
		errors.Is(err, schedule.ErrSlotNotFound),
		errors.Is(err, schedule.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidSpeaker),
		errors.Is(err, schedule.ErrInvalidWindow),
		errors.Is(err, schedule.ErrInvalidWeek),
		errors.Is(err, schedule.ErrInvalidQuarter),
		errors.Is(err, schedule.ErrWeakPassword),
		errors.Is(err, schedule.ErrQuarterExists):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
	case errors.Is(err, schedule.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "admin capability required"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

func quarterJSON(q *model.Quarter) gin.H {
	return gin.H{
		"id":           q.ID.String(),
		"year":         q.Year,
		"number":       q.Number,
		"meeting_date": time.Time(q.MeetingDate).Format("2006-01-02"),
		"weeks":        q.Weeks,
		"is_active":    q.IsActive,
	}
}

func slotJSON(s *model.Slot) gin.H {
	return gin.H{
		"id":          s.ID.String(),
		"quarter_id":  s.QuarterID.String(),
		"week":        s.Week,
		"time_window": string(s.TimeWindow),
		"label":       s.TimeWindow.Label(),
	}
}

func bookingJSON(b *model.Booking) gin.H {
	out := gin.H{
		"id":                b.ID.String(),
		"slot_id":           b.SlotID.String(),
		"speaker_name":      b.SpeakerName,
		"speaker_email":     b.SpeakerEmail,
		"speaker_phone":     b.SpeakerPhone,
		"specialty":         b.Specialty,
		"topic_title":       b.TopicTitle,
		"topic_description": b.TopicDescription,
		"status":            string(b.Status),
		"registered_at":     b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		out["cancelled_at"] = b.CancelledAt.UTC().Format(time.RFC3339)
	}
	if b.Slot != nil {
		out["slot"] = slotJSON(b.Slot)
	}
	return out
}
