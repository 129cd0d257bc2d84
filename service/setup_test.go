package service

import (
	"log"
	"testing"

	"pollster-backend/database"
	"pollster-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens the shared in-memory SQLite database and migrates the
// schema. Tests call clearTables before seeding their own data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	clearTables(db)
	return db
}

// clearTables empties every table, child tables first
func clearTables(db *gorm.DB) {
	session := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	session.Delete(&models.Vote{})
	session.Delete(&models.QuestionOption{})
	session.Delete(&models.VoteToken{})
	session.Delete(&models.PollQuestion{})
	session.Delete(&models.Option{})
	session.Delete(&models.Question{})
	session.Delete(&models.Poll{})
}

// createPoll inserts a poll owned by the given company
func createPoll(t *testing.T, db *gorm.DB, companyID uint) models.Poll {
	t.Helper()

	poll := models.Poll{
		Name:      "Test Poll",
		Active:    true,
		UserID:    1,
		CompanyID: companyID,
	}
	if err := db.Create(&poll).Error; err != nil {
		t.Fatalf("Failed to create poll: %v", err)
	}
	return poll
}

// attachQuestion creates a question with options and links it to the
// poll, returning the link id and option ids in creation order
func attachQuestion(t *testing.T, db *gorm.DB, pollID uint, text string, labels ...string) (uint, []uint) {
	t.Helper()

	question := models.Question{Text: text}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}

	link := models.PollQuestion{PollID: pollID, QuestionID: question.ID}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create poll question link: %v", err)
	}

	optionIDs := make([]uint, 0, len(labels))
	for _, label := range labels {
		option := models.Option{Label: label}
		if err := db.Create(&option).Error; err != nil {
			t.Fatalf("Failed to create option: %v", err)
		}
		if err := db.Create(&models.QuestionOption{QuestionID: question.ID, OptionID: option.ID}).Error; err != nil {
			t.Fatalf("Failed to create question option link: %v", err)
		}
		optionIDs = append(optionIDs, option.ID)
	}

	return link.ID, optionIDs
}

// castVotes inserts n vote rows for the (link, option) pair
func castVotes(t *testing.T, db *gorm.DB, linkID, optionID uint, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		if err := db.Create(&models.Vote{PollQuestionID: linkID, OptionID: optionID}).Error; err != nil {
			t.Fatalf("Failed to create vote: %v", err)
		}
	}
}
