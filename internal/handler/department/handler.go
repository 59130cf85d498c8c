package department

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/department"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service *department.Service
}

func NewHandler(service *department.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	dept := &model.Department{
		HospitalID:       hospitalID,
		Name:             req.Name,
		Head:             req.Head,
		TotalDoctors:     req.TotalDoctors,
		TotalNurses:      req.TotalNurses,
		SupportStaff:     req.SupportStaff,
		KeyStaff:         req.KeyStaff,
		Facilities:       req.Facilities,
		OperationalHours: req.OperationalHours,
		Metrics:          req.Metrics,
	}
	if err := h.service.CreateDepartment(c.Request.Context(), dept); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, dept)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, dept)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	dept, err := h.service.UpdateDepartment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, dept)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListDepartments(c *gin.Context) {
	hospitalID, err := handler.HospitalID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	departments, err := h.service.ListDepartments(c.Request.Context(), hospitalID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, departments)
}
