package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"pollster-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database connection
var DB *gorm.DB

// InitDB opens the MySQL connection and migrates the schema
func InitDB() error {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	dbUser := getEnv("DB_USER", "polluser")
	dbPassword := getEnv("DB_PASSWORD", "pollpassword")
	dbHost := getEnv("DB_HOST", "mysql")
	dbPort := getEnv("DB_PORT", "3306")
	dbName := getEnv("DB_NAME", "pollsdb")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("failed to migrate models: %v", err)
	}

	log.Println("Database connection and migration successful")
	return nil
}

// Migrate runs AutoMigrate for every table the service reads or writes.
// The uniqueness constraint on vote_tokens.token comes from the model tag;
// token issuance relies on it to reject concurrent duplicates.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Poll{},
		&models.Question{},
		&models.PollQuestion{},
		&models.Option{},
		&models.QuestionOption{},
		&models.Vote{},
		&models.VoteToken{},
	)
}

// CloseDB closes the underlying SQL connection
func CloseDB() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
		return
	}

	log.Println("Database connection closed")
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
