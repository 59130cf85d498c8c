package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/doctor"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	doc := &model.Doctor{
		HospitalID:      hospitalID,
		DepartmentID:    req.DepartmentID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
		Qualifications:  req.Qualifications,
		Availability:    req.Availability,
	}
	if err := h.service.CreateDoctor(c.Request.Context(), doc); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, doc)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	doc, err := h.service.UpdateDoctor(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

// ListDoctors narrows to one department when ?department_id= is set,
// feeding the booking form's dependent dropdown.
func (h *Handler) ListDoctors(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var departmentID *uuid.UUID
	if raw := c.Query("department_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		departmentID = &parsed
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), hospitalID, departmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctors)
}
