package main

import (
	"context"
	"net/http"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/config"
	"github.com/IPRP/Peer-Review-Platform-Backend/database"
	_ "github.com/IPRP/Peer-Review-Platform-Backend/docs" // Swagger docs - auto-generated
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/controller"
	studentctrl "github.com/IPRP/Peer-Review-Platform-Backend/internal/controller/student"
	teacherctrl "github.com/IPRP/Peer-Review-Platform-Backend/internal/controller/teacher"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/logger"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/middleware"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Peer Review Platform API
// @version 1.0
// @description API for workshop based peer reviewing of student submissions.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewWorkshopRepository,
			repository.NewSubmissionRepository,
			repository.NewReviewRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoreService,
			service.NewReviewAssignmentService,
			service.NewSubmissionCloserService,
			service.NewAuthService,
			service.NewWorkshopService,
			service.NewSubmissionService,
			service.NewReviewService,
			service.NewTodoService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			studentctrl.NewTodoController,
			studentctrl.NewSubmissionController,
			studentctrl.NewReviewController,
			teacherctrl.NewWorkshopController,
			teacherctrl.NewUserController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	todoCtrl *studentctrl.TodoController,
	submissionCtrl *studentctrl.SubmissionController,
	reviewCtrl *studentctrl.ReviewController,
	workshopCtrl *teacherctrl.WorkshopController,
	userCtrl *teacherctrl.UserController,
) {
	apiGroup := router.Group("/api/v1")
	apiGroup.POST("/login", authCtrl.Login)

	// Student Routes (prefixed with /api/v1)
	studentGroup := apiGroup.Group("")
	studentGroup.Use(middleware.Authenticate(cfg), middleware.RequireRole(model.RoleStudent))
	{
		studentGroup.GET("/todos", todoCtrl.GetTodo)
		studentGroup.POST("/workshops/:id/submissions", submissionCtrl.CreateSubmission)
		studentGroup.GET("/workshops/:id/submissions", submissionCtrl.GetWorkshopSubmissions)
		studentGroup.GET("/submissions/:id", submissionCtrl.GetSubmission)
		studentGroup.GET("/reviews/:id", reviewCtrl.GetReview)
		studentGroup.PUT("/reviews/:id", reviewCtrl.UpdateReview)
	}

	// Teacher Routes (prefixed with /api/v1/teacher)
	teacherGroup := apiGroup.Group("/teacher")
	teacherGroup.Use(middleware.Authenticate(cfg), middleware.RequireRole(model.RoleTeacher))
	{
		teacherGroup.POST("/users", userCtrl.CreateUser)
		teacherGroup.POST("/workshops", workshopCtrl.CreateWorkshop)
		teacherGroup.GET("/submissions/:id", workshopCtrl.GetSubmission)
		teacherGroup.GET("/workshops/:id/students/:sid/submissions", workshopCtrl.GetStudentSubmissions)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Peer review API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Workshop{},
		&model.WorkshopMember{},
		&model.Criterion{},
		&model.Submission{},
		&model.SubmissionCriterion{},
		&model.Review{},
		&model.ReviewPoint{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
