package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/handler/appointment"
	"github.com/medicore/hms-api/internal/handler/auth"
	"github.com/medicore/hms-api/internal/handler/department"
	"github.com/medicore/hms-api/internal/handler/doctor"
	"github.com/medicore/hms-api/internal/handler/health"
	"github.com/medicore/hms-api/internal/handler/hospital"
	"github.com/medicore/hms-api/internal/handler/patient"
	"github.com/medicore/hms-api/internal/handler/visit"
	"github.com/medicore/hms-api/internal/middleware"
)

// metricsPrefix must be unique per router; the prometheus default
// registry rejects duplicate collectors.
func newTestRouter(t *testing.T, metricsPrefix string) *Router {
	t.Helper()

	handlers := Handlers{
		Auth:        auth.NewHandler(nil),
		Health:      health.NewHandler(nil),
		Hospital:    hospital.NewHandler(nil),
		Department:  department.NewHandler(nil),
		Doctor:      doctor.NewHandler(nil),
		Patient:     patient.NewHandler(nil),
		Appointment: appointment.NewHandler(nil),
		Visit:       visit.NewHandler(nil, nil),
	}

	return NewRouter(middleware.NewAuthMiddleware(nil), handlers, Config{
		RateLimit:     middleware.RateLimiterConfig{Rate: 100, Burst: 200},
		Timeout:       5 * time.Second,
		MetricsPrefix: metricsPrefix,
	})
}

// Every handler group must mount without a route tree conflict. The
// hospital endpoints and the public registration endpoints share the
// /hospitals/:id prefix, so a mismatched param name panics here.
func TestSetupRegistersAllRoutes(t *testing.T) {
	r := newTestRouter(t, "hms_router_setup_test")

	require.NotPanics(t, func() {
		r.Setup()
	})

	routes := r.Engine().Routes()
	paths := make(map[string]bool, len(routes))
	for _, route := range routes {
		paths[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/login",
		"POST /api/v1/hospitals/:id/patients/register",
		"POST /api/v1/hospitals/:id/patients/verify",
		"GET /api/v1/hospitals/:id/roster",
		"POST /api/v1/hospitals/:id/roster/rebuild",
		"GET /api/v1/patients/:id",
		"PUT /api/v1/appointments/:id/status",
		"POST /api/v1/appointments/:id/visit",
		"GET /metrics",
	} {
		assert.True(t, paths[want], "route not registered: %s", want)
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	r := newTestRouter(t, "hms_router_authz_test")
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	r.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
