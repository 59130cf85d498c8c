package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medicore/hms-api/internal/config"
	"github.com/medicore/hms-api/internal/email"
	appointmentHandler "github.com/medicore/hms-api/internal/handler/appointment"
	authHandler "github.com/medicore/hms-api/internal/handler/auth"
	departmentHandler "github.com/medicore/hms-api/internal/handler/department"
	doctorHandler "github.com/medicore/hms-api/internal/handler/doctor"
	healthHandler "github.com/medicore/hms-api/internal/handler/health"
	hospitalHandler "github.com/medicore/hms-api/internal/handler/hospital"
	patientHandler "github.com/medicore/hms-api/internal/handler/patient"
	visitHandler "github.com/medicore/hms-api/internal/handler/visit"
	"github.com/medicore/hms-api/internal/middleware"
	"github.com/medicore/hms-api/internal/otp"
	"github.com/medicore/hms-api/internal/repository/postgres"
	"github.com/medicore/hms-api/internal/router"
	appointmentService "github.com/medicore/hms-api/internal/service/appointment"
	authService "github.com/medicore/hms-api/internal/service/auth"
	departmentService "github.com/medicore/hms-api/internal/service/department"
	doctorService "github.com/medicore/hms-api/internal/service/doctor"
	hospitalService "github.com/medicore/hms-api/internal/service/hospital"
	patientService "github.com/medicore/hms-api/internal/service/patient"
	visitService "github.com/medicore/hms-api/internal/service/visit"
	"github.com/medicore/hms-api/pkg/auth"
	"github.com/medicore/hms-api/pkg/logger"
	"github.com/medicore/hms-api/pkg/metrics"
	"github.com/medicore/hms-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("hms", "api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)

	emailSvc := email.Noop()
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	otpClient := otp.NewClient(otp.Config{
		BaseURL:       cfg.OTP.BaseURL,
		CountryPrefix: cfg.OTP.CountryPrefix,
		Timeout:       cfg.OTP.Timeout,
		APIKey:        cfg.OTP.APIKey,
	}, appMetrics)

	// Services
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, emailSvc)
	hospitalSvc := hospitalService.NewService(hospitalRepo)
	departmentSvc := departmentService.NewService(departmentRepo, hospitalSvc, outboxRepo)
	doctorSvc := doctorService.NewService(doctorRepo, departmentRepo, hospitalSvc, outboxRepo)
	patientSvc := patientService.NewService(patientRepo, userRepo, outboxRepo, otpClient)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo,
		departmentRepo, outboxRepo, emailSvc, appLogger)
	visitSvc := visitService.NewService(visitRepo, appointmentRepo)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handlers := router.Handlers{
		Auth:        authHandler.NewHandler(authSvc),
		Health:      healthHandler.NewHandler(db),
		Hospital:    hospitalHandler.NewHandler(hospitalSvc),
		Department:  departmentHandler.NewHandler(departmentSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc),
		Patient:     patientHandler.NewHandler(patientSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Visit:       visitHandler.NewHandler(visitSvc, doctorSvc),
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		},
		CORSConfig:    middleware.DefaultCORSConfig(),
		Timeout:       cfg.Server.RequestTimeout,
		MetricsPrefix: "hms",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
