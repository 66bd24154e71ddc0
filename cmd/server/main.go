package main

import (
	"log"

	"github.com/yashikaparyani/event-management-backend/internal/config"
	"github.com/yashikaparyani/event-management-backend/internal/database"
	"github.com/yashikaparyani/event-management-backend/internal/handlers"
	"github.com/yashikaparyani/event-management-backend/internal/live"
	"github.com/yashikaparyani/event-management-backend/internal/middleware"
	"github.com/yashikaparyani/event-management-backend/internal/models"
	"github.com/yashikaparyani/event-management-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           Event Management API
// @version         1.0
// @description     Backend for multi-tenant events with live quiz and debate sessions
// @host            localhost:5000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	eventService := services.NewEventService(db)
	quizService := services.NewQuizService(db)
	debateService := services.NewDebateService(db)

	directory := live.NewGormDirectory(db)
	quizCoordinator := live.NewQuizCoordinator(live.NewGormQuizStore(db), directory)
	debateCoordinator := live.NewDebateCoordinator(live.NewGormDebateStore(db), directory)
	gateway := live.NewGateway(quizCoordinator, debateCoordinator)

	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	quizHandler := handlers.NewQuizHandler(quizService)
	debateHandler := handlers.NewDebateHandler(debateService)
	wsHandler := handlers.NewWSHandler(authService, directory, gateway)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/quiz", wsHandler.HandleQuizSocket)
	r.GET("/ws/debate", wsHandler.HandleDebateSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		users := api.Group("/users")
		users.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleAdmin))
		{
			users.PUT("/:id/role", authHandler.SetRole)
		}

		events := api.Group("/events")
		events.Use(middleware.JWTAuth(authService))
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", middleware.RequireRole(models.RoleAdmin), eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.POST("/join", eventHandler.JoinEvent)
			events.GET("/:id/dashboard", eventHandler.Dashboard)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.JWTAuth(authService))
		{
			quizzes.GET("", quizHandler.ListByEvent)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.GET("/:id/session", quizHandler.SessionState)
			quizzes.GET("/:id/leaderboard", quizHandler.Leaderboard)
		}

		debates := api.Group("/debates")
		debates.Use(middleware.JWTAuth(authService))
		{
			debates.POST("", debateHandler.CreateDebate)
			debates.GET("/session", debateHandler.SessionState)
			debates.GET("/leaderboard", debateHandler.Leaderboard)
			debates.GET("/:id", debateHandler.GetDebate)
			debates.POST("/:id/teams", debateHandler.RegisterTeam)
			debates.POST("/:id/audience", debateHandler.RegisterAudience)
		}
	}

	log.Printf("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
