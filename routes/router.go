package routes

import (
	"log"
	"net/http"
	"os"
	"time"

	"pollster-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server
type Server struct {
	*http.Server
}

// SetupRouter configures the gin router
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // restrict to the frontend domain in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.InitRateLimiters()
	handlers.InitReportCache()

	api := router.Group("/api")
	{
		api.Use(handlers.RateLimitMiddleware())

		api.GET("/health", handlers.HealthCheck)
		api.GET("/status", handlers.SystemStatus)

		// Token code lookup used by the voting frontend
		api.GET("/poll-by-code/:token", handlers.GetPollByCode)

		polls := api.Group("/polls")
		{
			polls.POST("", handlers.CreatePoll)
			polls.GET("", handlers.GetPolls)
			polls.GET("/:id", handlers.GetPoll)
			polls.PUT("/:id", handlers.UpdatePoll)
			polls.DELETE("/:id", handlers.DeletePoll)

			polls.POST("/:id/questions", handlers.AddQuestion)

			polls.POST("/:id/tokens", handlers.IssueRateLimitMiddleware(), handlers.IssueTokens)
			polls.GET("/:id/tokens", handlers.ListTokens)

			polls.GET("/:id/report", handlers.GetPollReport)
		}
	}

	return router
}

// StartServer starts the HTTP server
func StartServer(router *gin.Engine) *Server {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8001"
	}

	addr := ":" + port

	srv := &Server{
		&http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	go func() {
		log.Printf("Polls API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	return srv
}
