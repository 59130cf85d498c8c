package visit

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/hms-api/internal/handler"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/doctor"
	"github.com/medicore/hms-api/internal/service/visit"
	"github.com/medicore/hms-api/pkg/httputil"
)

type Handler struct {
	service   *visit.Service
	doctorSvc *doctor.Service
}

func NewHandler(service *visit.Service, doctorSvc *doctor.Service) *Handler {
	return &Handler{service: service, doctorSvc: doctorSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments/:id/visit", h.RecordVisit)
	r.GET("/appointments/:id/visit", h.GetVisitByAppointment)

	visits := r.Group("/visits")
	{
		visits.GET("/:id", h.GetVisit)
	}

	r.GET("/patients/:id/visits", h.PatientHistory)
}

// RecordVisit finalizes the clinical record for an appointment. The
// attending doctor is resolved from the signed-in user, not from the
// request body.
func (h *Handler) RecordVisit(c *gin.Context) {
	appointmentID, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	userID, err := handler.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.doctorSvc.GetDoctorByUserID(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	recorded, err := h.service.RecordVisit(c.Request.Context(), appointmentID, doc.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, recorded)
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	record, err := h.service.GetVisit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) GetVisitByAppointment(c *gin.Context) {
	appointmentID, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	record, err := h.service.GetVisitByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) PatientHistory(c *gin.Context) {
	patientID, err := handler.PathID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	visits, err := h.service.PatientHistory(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, visits)
}
