package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/appointment"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.PUT("/:id/reschedule", h.Reschedule)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	booked, err := h.service.CreateAppointment(c.Request.Context(), hospitalID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, booked)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	record, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	updated, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filters := &model.AppointmentFilters{
		HospitalID: hospitalID,
		Status:     model.AppointmentStatus(c.Query("status")),
	}
	if raw := c.Query("doctor_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.DoctorID = &parsed
	}
	if raw := c.Query("patient_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.PatientID = &parsed
	}
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.StartDate = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.EndDate = parsed
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}
