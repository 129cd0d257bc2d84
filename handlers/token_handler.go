package handlers

import (
	"errors"
	"log"
	"net/http"

	"pollster-backend/models"
	"pollster-backend/service"

	"github.com/gin-gonic/gin"
)

// IssueTokens generates a batch of unique access codes for a poll.
// A uniqueness violation on insert (possible when two issuance requests
// race on the same codes) fails the whole call; the client retries.
func IssueTokens(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var input models.IssueTokensInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := tokenService.Issue(c.Request.Context(), pollID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrQuantityTooLarge), errors.Is(err, service.ErrInvalidPollID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Token issuance failed for poll %d: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"tokens":  tokens,
		"poll_id": pollID,
	})
}

// ListTokens returns every token issued for a poll
func ListTokens(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	tokens, err := tokenService.List(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPollID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "poll_id": pollID})
}

// GetPollByCode resolves an access code to the poll it belongs to
func GetPollByCode(c *gin.Context) {
	code := c.Param("token")

	pollID, err := tokenService.FindPollByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
}
