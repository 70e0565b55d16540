package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/medicore/hospital-api/internal/config"
	"github.com/medicore/hospital-api/internal/email"
	"github.com/medicore/hospital-api/internal/handler"
	adminHandler "github.com/medicore/hospital-api/internal/handler/admin"
	authHandler "github.com/medicore/hospital-api/internal/handler/auth"
	doctorHandler "github.com/medicore/hospital-api/internal/handler/doctor"
	healthHandler "github.com/medicore/hospital-api/internal/handler/health"
	notificationHandler "github.com/medicore/hospital-api/internal/handler/notification"
	overviewHandler "github.com/medicore/hospital-api/internal/handler/overview"
	patientHandler "github.com/medicore/hospital-api/internal/handler/patient"
	"github.com/medicore/hospital-api/internal/middleware"
	"github.com/medicore/hospital-api/internal/repository/postgres"
	"github.com/medicore/hospital-api/internal/router"
	appointmentService "github.com/medicore/hospital-api/internal/service/appointment"
	authService "github.com/medicore/hospital-api/internal/service/auth"
	dashboardService "github.com/medicore/hospital-api/internal/service/dashboard"
	hospitalService "github.com/medicore/hospital-api/internal/service/hospital"
	medicalService "github.com/medicore/hospital-api/internal/service/medical"
	notificationService "github.com/medicore/hospital-api/internal/service/notification"
	userService "github.com/medicore/hospital-api/internal/service/user"
	"github.com/medicore/hospital-api/pkg/auth"
	"github.com/medicore/hospital-api/pkg/logger"
	"github.com/medicore/hospital-api/pkg/messaging"
	messagingRedis "github.com/medicore/hospital-api/pkg/messaging/redis"
	"github.com/medicore/hospital-api/pkg/metrics"
	"github.com/medicore/hospital-api/pkg/security"
)

func main() {
	log := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	m := metrics.NewMetrics("hospital_api")

	db, err := postgres.NewDB(cfg.Database, m)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Redis is optional: without it the API runs, notifications are dropped.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = messagingRedis.NewRedisBroker(messagingRedis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
	}

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	}

	zlog := log.Zerolog()

	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	hasher := security.NewBcryptHasher(12)

	notificationSvc := notificationService.NewService(broker, zlog, m)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, emailSvc, zlog)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo,
		notificationSvc, emailSvc, zlog, m)
	dashboardSvc := dashboardService.NewService(userRepo, appointmentRepo, reportRepo,
		departmentRepo, roomRepo, serviceRepo)
	medicalSvc := medicalService.NewService(reportRepo, prescriptionRepo, userRepo,
		appointmentRepo, notificationSvc, zlog)
	hospitalSvc := hospitalService.NewService(departmentRepo, roomRepo, serviceRepo,
		userRepo, zlog)
	userSvc := userService.NewService(userRepo, zlog)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	handler.RegisterValidations()

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db.DB),
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(dashboardSvc, appointmentSvc, medicalSvc),
		doctorHandler.NewHandler(dashboardSvc, appointmentSvc, medicalSvc),
		adminHandler.NewHandler(dashboardSvc, appointmentSvc, hospitalSvc, userSvc),
		overviewHandler.NewHandler(dashboardSvc),
		notificationHandler.NewHandler(notificationSvc),
		zlog,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(fmt.Sprintf("listening on :%d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
