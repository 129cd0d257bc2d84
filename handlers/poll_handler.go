package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"pollster-backend/database"
	"pollster-backend/models"
	"pollster-backend/repository"
	"pollster-backend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	tokenService  *service.TokenService
	reportService *service.ReportService
)

// InitHandlers wires the services the handlers delegate to
func InitHandlers(db *gorm.DB) {
	tokenService = service.NewTokenService(repository.NewTokenRepository(db))
	reportService = service.NewReportService(repository.NewReportRepository(db))
	log.Println("Handler services initialized")
}

// parsePollID reads the :id path parameter
func parsePollID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
		return 0, false
	}
	return uint(id), true
}

// CreatePoll handles the creation of a new poll
func CreatePoll(c *gin.Context) {
	var input models.CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ExpireAt != nil && input.ExpireAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry must be in the future"})
		return
	}

	poll := models.Poll{
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
		UserID:      input.UserID,
		CompanyID:   input.CompanyID,
		ExpireAt:    input.ExpireAt,
	}

	if err := database.DB.Create(&poll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
		return
	}

	c.JSON(http.StatusCreated, poll)
}

// GetPolls retrieves all polls, optionally filtered by company
func GetPolls(c *gin.Context) {
	query := database.DB.Order("created_at desc")

	if companyStr := c.Query("company_id"); companyStr != "" {
		companyID, err := strconv.ParseUint(companyStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
			return
		}
		query = query.Where("company_id = ?", uint(companyID))
	}

	var polls []models.Poll
	if err := query.Find(&polls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve polls"})
		return
	}
	c.JSON(http.StatusOK, polls)
}

// GetPoll handles retrieving a single poll by ID
func GetPoll(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var poll models.Poll
	if err := database.DB.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	c.JSON(http.StatusOK, poll)
}

// UpdatePoll handles updating an existing poll's details
func UpdatePoll(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var input models.UpdatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var poll models.Poll
	if err := database.DB.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	needsUpdate := false

	if input.Name != nil {
		poll.Name = *input.Name
		needsUpdate = true
	}
	if input.Description != nil {
		poll.Description = *input.Description
		needsUpdate = true
	}
	if input.Active != nil {
		poll.Active = *input.Active
		needsUpdate = true
	}
	if input.ExpireAt != nil {
		poll.ExpireAt = input.ExpireAt
		needsUpdate = true
	}

	if needsUpdate {
		if err := database.DB.Save(&poll).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update poll"})
			return
		}
	}

	c.JSON(http.StatusOK, poll)
}

// DeletePoll removes a poll with its question links and tokens
func DeletePoll(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var poll models.Poll
	if err := database.DB.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.PollQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.VoteToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&poll).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete poll"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll deleted successfully"})
}

// AddQuestion attaches a question with its options to a poll. Question,
// link, options and their links are created in one transaction.
func AddQuestion(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var input models.AddQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var poll models.Poll
	if err := database.DB.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	question := models.Question{Text: input.Text}
	link := models.PollQuestion{PollID: pollID}
	options := make([]models.Option, len(input.Options))

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		link.QuestionID = question.ID
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		for i, label := range input.Options {
			options[i] = models.Option{Label: label}
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}

		optionLinks := make([]models.QuestionOption, len(options))
		for i, opt := range options {
			optionLinks[i] = models.QuestionOption{QuestionID: question.ID, OptionID: opt.ID}
		}
		return tx.Create(&optionLinks).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"poll_question_id": link.ID,
		"question":         question,
		"options":          options,
	})
}
