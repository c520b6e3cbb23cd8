package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ilamaran/vinavidai/config"
	"github.com/ilamaran/vinavidai/database"
	adminctrl "github.com/ilamaran/vinavidai/internal/controller/admin"
	userctrl "github.com/ilamaran/vinavidai/internal/controller/user"
	"github.com/ilamaran/vinavidai/internal/logger"
	"github.com/ilamaran/vinavidai/internal/middleware"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
	"github.com/ilamaran/vinavidai/internal/service"
)

// @title Vinavidai Quiz API
// @version 1.0
// @description Bilingual (English/Tamil) quiz administration and participation backend: admins author and schedule questions, users take the active quiz and review their scores.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
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
			repository.NewQuestionRepository,
			repository.NewUserRepository,
			repository.NewScoreRepository,
			repository.NewNoticeRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuestionService,
			service.NewScheduleService,
			service.NewActiveQuizService,
			service.NewQuizSessionService,
			service.NewScoreService,
			service.NewAuthService,
			service.NewUserService,
			service.NewNoticeService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewQuestionController,
			adminctrl.NewAdminController,
			userctrl.NewAuthController,
			userctrl.NewQuizController,
			userctrl.NewScoreController,
			userctrl.NewNoticeController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartSessionSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route Gin's request log through Zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html. The served spec comes from the
	// generated docs package; run `swag init -g cmd/main.go` before building
	// to produce it.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	questionCtrl *adminctrl.QuestionController,
	adminCtrl *adminctrl.AdminController,
	authCtrl *userctrl.AuthController,
	quizCtrl *userctrl.QuizController,
	scoreCtrl *userctrl.ScoreController,
	noticeCtrl *userctrl.NoticeController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/change-password", middleware.RequireAuth(authService), authCtrl.ChangePassword)
	}

	adminGroup := api.Group("/admin", middleware.RequireAuth(authService), middleware.RequireAdmin())
	{
		questions := adminGroup.Group("/questions")
		questions.GET("", questionCtrl.ListQuestions)
		questions.POST("", questionCtrl.CreateQuestion)
		questions.DELETE("/bulk", questionCtrl.BulkDelete)
		questions.POST("/bulk/publish", questionCtrl.PublishBulk)
		questions.GET("/:id", questionCtrl.GetQuestion)
		questions.PUT("/:id", questionCtrl.UpdateQuestion)
		questions.DELETE("/:id", questionCtrl.DeleteQuestion)
		questions.POST("/:id/publish", questionCtrl.PublishQuestion)

		users := adminGroup.Group("/users")
		users.GET("", adminCtrl.ListUsers)
		users.POST("", adminCtrl.CreateUser)
		users.DELETE("/:id", adminCtrl.DeleteUser)
		users.POST("/:id/reset-password", adminCtrl.ResetPassword)

		notices := adminGroup.Group("/notices")
		notices.GET("", adminCtrl.ListNotices)
		notices.POST("", adminCtrl.CreateNotice)
		notices.DELETE("/:id", adminCtrl.DeleteNotice)

		adminGroup.GET("/dashboard/stats", adminCtrl.DashboardStats)
	}

	userGroup := api.Group("", middleware.RequireAuth(authService))
	{
		quizzes := userGroup.Group("/quizzes")
		quizzes.GET("/active", quizCtrl.GetActiveQuiz)
		quizzes.POST("/start", quizCtrl.StartSession)
		quizzes.POST("/answer", quizCtrl.AnswerQuestion)
		quizzes.POST("/advance", quizCtrl.AdvanceSession)
		quizzes.POST("/submit", quizCtrl.SubmitSession)

		scores := userGroup.Group("/scores")
		scores.GET("/history", scoreCtrl.GetHistory)
		scores.GET("/history/:id", scoreCtrl.GetHistoryDetail)
		scores.GET("/monthly", scoreCtrl.GetMonthlyAverages)
		scores.GET("/leaderboard", scoreCtrl.GetLeaderboard)

		userGroup.GET("/notices", noticeCtrl.ListNotices)
		userGroup.POST("/notices/:id/dismiss", noticeCtrl.DismissNotice)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
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

// StartSessionSweeper periodically force-submits quiz sessions whose
// visibility window has closed.
func StartSessionSweeper(lc fx.Lifecycle, cfg *config.Config, sessions service.QuizSessionService) {
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ticker := time.NewTicker(cfg.SweepInterval)
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if forced := sessions.SweepExpired(); forced > 0 {
							log.Info().Int("forced", forced).Msg("Force-submitted expired quiz sessions")
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.User{},
		&model.ScoreRecord{},
		&model.AnsweredQuestion{},
		&model.Notice{},
		&model.NoticeDismissal{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
