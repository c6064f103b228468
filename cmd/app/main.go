package main

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"musicjam/cmd/fx/account_fx"
	"musicjam/cmd/fx/checkin_fx"
	"musicjam/cmd/fx/contact_fx"
	"musicjam/cmd/fx/controllers_fx"
	"musicjam/cmd/fx/db_fx"
	"musicjam/cmd/fx/mail_fx"
	"musicjam/cmd/fx/memcache_fx"
	"musicjam/internal/api/controllers"
	"musicjam/pkg/middleware"
	"musicjam/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	logger := utils.InitLogger()
	defer func() { _ = logger.Sync() }()

	app := fx.New(
		fx.Supply(logger),

		db_fx.Module,
		mail_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		contact_fx.Module,
		checkin_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, log *zap.SugaredLogger) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "port", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalw("failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	contactController *controllers.ContactController,
	checkInController *controllers.CheckInController,
) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(cors.Default())

	RegisterRoutes(r, accountController, contactController, checkInController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	contactController *controllers.ContactController,
	checkInController *controllers.CheckInController) {

	auth := r.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/register", accountController.Register)
	auth.POST("/login", accountController.Login)
	auth.POST("/forgot-password", accountController.ForgotPassword)
	auth.POST("/reset-password", accountController.ResetPassword)
	auth.GET("/profile", middleware.JWTAuthMiddleware(), accountController.Profile)

	contacts := r.Group("/contacts")
	contacts.Use(middleware.JWTAuthMiddleware())
	contacts.GET("", contactController.ListContacts)
	contacts.POST("", contactController.CreateContact)
	contacts.PUT("/:id", contactController.UpdateContact)
	contacts.DELETE("/:id", contactController.DeleteContact)

	checkIns := r.Group("/check-ins")
	checkIns.Use(middleware.JWTAuthMiddleware())
	checkIns.POST("", checkInController.ScheduleCheckIn)
	checkIns.POST("/:id/start", checkInController.StartCheckIn)
	checkIns.POST("/:id/complete", checkInController.CompleteCheckIn)
	checkIns.POST("/:id/cancel", checkInController.CancelCheckIn)
	checkIns.POST("/:id/emergency", checkInController.TriggerEmergency)
	checkIns.GET("/scheduled", checkInController.ListScheduled)
	checkIns.GET("/active", checkInController.ListActive)
	checkIns.GET("/history", checkInController.ListHistory)
	checkIns.GET("/status", checkInController.Status)
}
