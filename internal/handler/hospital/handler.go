package hospital

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/hospital"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service *hospital.Service
}

func NewHandler(service *hospital.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.CreateHospital)
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.GET("/:id/roster", h.GetRoster)
		hospitals.POST("/:id/roster/rebuild", h.RebuildProjection)
	}
}

func (h *Handler) CreateHospital(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	hospital := &model.Hospital{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.service.CreateHospital(c.Request.Context(), hospital); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, hospital)
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	hospital, err := h.service.GetHospital(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hospital)
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.service.ListHospitals(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hospitals)
}

// GetRoster backs the dependent dropdowns: departments of a hospital,
// and doctors optionally narrowed via ?department_id=.
func (h *Handler) GetRoster(c *gin.Context) {
	id, err := handler.PathID(c, "id")
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

	roster, err := h.service.GetRoster(c.Request.Context(), id, departmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, roster)
}

func (h *Handler) RebuildProjection(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	hospital, err := h.service.RebuildProjection(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, hospital)
}
