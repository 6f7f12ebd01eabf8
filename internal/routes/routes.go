package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	"github.com/BruksfildServices01/home-scheduler/internal/config"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/home-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/home-scheduler/internal/usecase/schedule"
)

// Infra são os singletons criados (e encerrados) pelo main
type Infra struct {
	Logger   *zap.Logger
	Cache    cache.Cache
	Pinger   handlers.Pinger
	Notifier ucSchedule.Notifier
	Audit    *audit.Dispatcher
	NotifLog *infraRepo.NotificationLogGormRepository
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(infra.Logger),
		middleware.CORSMiddleware(cfg.FrontendURL),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	guard := authz.NewGuard()

	// ======================================================
	// 🧠 USE CASES — SCHEDULES
	// ======================================================
	engine := ucSchedule.NewEngine(
		scheduleRepo,
		guard,
		infra.Notifier,
		infra.Audit,
		infra.Cache,
		infra.Logger,
		ucSchedule.EngineOptions{CountryCode: cfg.CountryCode},
	)

	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, guard, infra.Audit, infra.Cache, infra.Logger, cfg.CountryCode)
	editScheduleUC := ucSchedule.NewEditSchedule(scheduleRepo, guard, infra.Audit, infra.Cache, infra.Logger)
	rescheduleUC := ucSchedule.NewRescheduleSchedule(scheduleRepo, guard, infra.Audit, infra.Cache, infra.Logger)
	deleteScheduleUC := ucSchedule.NewDeleteSchedule(scheduleRepo, guard, infra.Audit, infra.Cache, infra.Logger)

	queries := ucSchedule.NewQueries(
		scheduleRepo,
		guard,
		infra.NotifLog,
		infra.Cache,
		infra.Logger,
		ucSchedule.QueryOptions{CacheTTL: cfg.CacheTTL, Timezone: cfg.Timezone},
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	homeHandler := handlers.NewHomeHandler(queries)
	userHandler := handlers.NewUserHandler(db, guard, infra.Audit)
	serviceHandler := handlers.NewServiceHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, guard)
	healthHandler := handlers.NewHealthHandler(db, infra.Pinger)

	scheduleHandler := handlers.NewScheduleHandler(
		engine,
		createScheduleUC,
		editScheduleUC,
		rescheduleUC,
		deleteScheduleUC,
		queries,
	)

	// ======================================================
	// 🌐 PÚBLICO
	// ======================================================
	r.GET("/health", healthHandler.Check)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/services/list", serviceHandler.List)

	// ======================================================
	// 🔐 AUTENTICADO
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		secured.GET("/me", meHandler.GetMe)
		secured.GET("/home", homeHandler.Summary)

		secured.GET("/users/providers/list", userHandler.ListProviders)
		secured.PUT("/users/update-notification/:userId", userHandler.UpdateNotification)

		secured.GET("/audit-logs", auditLogsHandler.List)

		// ------------------------------
		// SCHEDULES
		// ------------------------------
		schedules := secured.Group("/schedules")
		{
			schedules.POST("/register", scheduleHandler.Register)
			schedules.GET("/list", scheduleHandler.ListAll)
			schedules.GET("/list/:userId", scheduleHandler.ListByUser)
			schedules.GET("/provider/list/:providerId", scheduleHandler.ListByProvider)
			schedules.GET("/bucket/:bucket", scheduleHandler.ListByBucket)
			schedules.GET("/notifications/:id", scheduleHandler.Notifications)

			schedules.PUT("/edit/:id", scheduleHandler.Edit)
			schedules.POST("/reschedule/:id", scheduleHandler.Reschedule)
			schedules.DELETE("/delete/:id", scheduleHandler.Delete)

			status := schedules.Group("/update-status")
			for _, kind := range []domain.Kind{
				domain.KindConfirm,
				domain.KindStart,
				domain.KindPause,
				domain.KindRestart,
				domain.KindFinish,
				domain.KindCancel,
			} {
				status.PUT("/"+string(kind)+"/:id", scheduleHandler.Transition(kind))
			}
		}
	}
}
