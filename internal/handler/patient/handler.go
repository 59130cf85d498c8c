package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/patient"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the staff-facing patient endpoints
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
	}
}

// RegisterPublicRoutes mounts the two-step OTP registration. These sit
// outside the authenticated group; the caller proves identity with the
// OTP, not a session. The param must stay ":id" to share the route
// tree position with the hospital endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	patients := r.Group("/hospitals/:id/patients")
	{
		patients.POST("/register", h.InitiateRegistration)
		patients.POST("/verify", h.CompleteRegistration)
	}
}

func (h *Handler) InitiateRegistration(c *gin.Context) {
	hospitalID, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	if err := h.service.InitiateRegistration(c.Request.Context(), hospitalID, req.NationalID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"otp_sent": true})
}

func (h *Handler) CompleteRegistration(c *gin.Context) {
	hospitalID, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.VerifyPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	registered, err := h.service.CompleteRegistration(c.Request.Context(), hospitalID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, registered)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	record, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	record, err := h.service.UpdatePatient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) ListPatients(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filters := &model.PatientFilters{
		HospitalID: hospitalID,
		Status:     model.PatientStatus(c.Query("status")),
		SearchTerm: c.Query("search"),
	}
	if raw := c.Query("department_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.DepartmentID = &parsed
	}
	if raw := c.Query("doctor_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.DoctorID = &parsed
	}

	patients, err := h.service.ListPatients(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patients)
}
