package handlers

import (
	"log"
	"testing"

	"pollster-backend/database"
	"pollster-backend/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestEnvironment builds the gin router and in-memory SQLite
// database for handler tests
func SetupTestEnvironment(t *testing.T) (*gin.Engine, *gorm.DB) {
	testing.Init()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	database.DB = db
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	InitHandlers(db)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	router.Use(cors.New(config))

	// Same route table as routes.SetupRouter minus rate limiting
	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/poll-by-code/:token", GetPollByCode)

		polls := api.Group("/polls")
		{
			polls.POST("", CreatePoll)
			polls.GET("", GetPolls)
			polls.GET("/:id", GetPoll)
			polls.PUT("/:id", UpdatePoll)
			polls.DELETE("/:id", DeletePoll)
			polls.POST("/:id/questions", AddQuestion)
			polls.POST("/:id/tokens", IssueTokens)
			polls.GET("/:id/tokens", ListTokens)
			polls.GET("/:id/report", GetPollReport)
		}
	}

	return router, db
}

// ClearTables empties every table between tests, child tables first
func ClearTables(db *gorm.DB) {
	session := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	session.Delete(&models.Vote{})
	session.Delete(&models.QuestionOption{})
	session.Delete(&models.VoteToken{})
	session.Delete(&models.PollQuestion{})
	session.Delete(&models.Option{})
	session.Delete(&models.Question{})
	session.Delete(&models.Poll{})
}
