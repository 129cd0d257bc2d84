package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pollster-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreatePoll(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	pollData := gin.H{
		"name":        "Office Lunch Poll",
		"description": "Weekly lunch vote",
		"user_id":     3,
		"company_id":  12,
	}
	jsonData, _ := json.Marshal(pollData)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/polls", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var createdPoll models.Poll
	err := json.Unmarshal(w.Body.Bytes(), &createdPoll)
	assert.NoError(t, err)
	assert.NotZero(t, createdPoll.ID)
	assert.Equal(t, "Office Lunch Poll", createdPoll.Name)
	assert.Equal(t, uint(3), createdPoll.UserID)
	assert.Equal(t, uint(12), createdPoll.CompanyID)
	assert.True(t, createdPoll.Active) // Check default value
}

func TestCreatePoll_InvalidInput(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	tests := []struct {
		name        string
		body        gin.H
		expectedErr string
	}{
		{
			name:        "Missing name",
			body:        gin.H{"user_id": 1, "company_id": 1},
			expectedErr: "Name",
		},
		{
			name:        "Missing company",
			body:        gin.H{"name": "Poll", "user_id": 1},
			expectedErr: "CompanyID",
		},
		{
			name:        "Expiry in the past",
			body:        gin.H{"name": "Poll", "user_id": 1, "company_id": 1, "expire_at": "2001-01-01T00:00:00Z"},
			expectedErr: "Expiry must be in the future",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonData, _ := json.Marshal(tc.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/polls", bytes.NewBuffer(jsonData))
			req.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var responseBody map[string]string
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)
			assert.Contains(t, responseBody["error"], tc.expectedErr)
		})
	}
}

func TestGetPoll(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	poll := models.Poll{Name: "Specific Poll", Active: true, UserID: 1, CompanyID: 4}
	db.Create(&poll)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/polls/%d", poll.ID), nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var fetchedPoll models.Poll
	err := json.Unmarshal(w.Body.Bytes(), &fetchedPoll)
	assert.NoError(t, err)
	assert.Equal(t, poll.ID, fetchedPoll.ID)
	assert.Equal(t, "Specific Poll", fetchedPoll.Name)
	assert.Equal(t, uint(4), fetchedPoll.CompanyID)
}

func TestGetPoll_NotFound(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/polls/9999", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var responseBody map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	assert.NoError(t, err)
	assert.Equal(t, "Poll not found", responseBody["error"])
}

func TestGetPolls_FilterByCompany(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	db.Create(&models.Poll{Name: "Mine", UserID: 1, CompanyID: 5})
	db.Create(&models.Poll{Name: "Also mine", UserID: 1, CompanyID: 5})
	db.Create(&models.Poll{Name: "Theirs", UserID: 2, CompanyID: 6})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/polls?company_id=5", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var polls []models.Poll
	err := json.Unmarshal(w.Body.Bytes(), &polls)
	assert.NoError(t, err)
	assert.Len(t, polls, 2)
	for _, poll := range polls {
		assert.Equal(t, uint(5), poll.CompanyID)
	}
}

func TestUpdatePoll(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	poll := models.Poll{Name: "Original Name", Active: true, UserID: 1, CompanyID: 1}
	db.Create(&poll)

	updatedName := "Updated Name"
	updatedActive := false
	updateData := gin.H{
		"name":   &updatedName,
		"active": &updatedActive,
	}
	jsonData, _ := json.Marshal(updateData)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/polls/%d", poll.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var pollInDB models.Poll
	db.First(&pollInDB, poll.ID)
	assert.Equal(t, updatedName, pollInDB.Name)
	assert.Equal(t, updatedActive, pollInDB.Active)
}

func TestUpdatePoll_NotFound(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	name := "Does not matter"
	jsonData, _ := json.Marshal(gin.H{"name": &name})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/polls/9999", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePoll(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	poll := models.Poll{Name: "To Be Deleted", UserID: 1, CompanyID: 1}
	db.Create(&poll)
	db.Create(&models.PollQuestion{PollID: poll.ID, QuestionID: 1})
	db.Create(&models.VoteToken{Token: "123123", PollID: poll.ID})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/polls/%d", poll.ID), nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Poll{}).Where("id = ?", poll.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.PollQuestion{}).Where("poll_id = ?", poll.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.VoteToken{}).Where("poll_id = ?", poll.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddQuestion(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	poll := models.Poll{Name: "Questions Poll", UserID: 1, CompanyID: 1}
	db.Create(&poll)

	questionData := gin.H{
		"text":    "Favourite language?",
		"options": []string{"Go", "Python", "Rust"},
	}
	jsonData, _ := json.Marshal(questionData)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/polls/%d/questions", poll.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var link models.PollQuestion
	assert.NoError(t, db.Where("poll_id = ?", poll.ID).First(&link).Error)

	var question models.Question
	assert.NoError(t, db.First(&question, link.QuestionID).Error)
	assert.Equal(t, "Favourite language?", question.Text)

	var optionLinks []models.QuestionOption
	db.Where("question_id = ?", question.ID).Find(&optionLinks)
	assert.Len(t, optionLinks, 3)
}

func TestAddQuestion_TooFewOptions(t *testing.T) {
	router, db := SetupTestEnvironment(t)
	ClearTables(db)

	poll := models.Poll{Name: "Questions Poll", UserID: 1, CompanyID: 1}
	db.Create(&poll)

	jsonData, _ := json.Marshal(gin.H{"text": "Q?", "options": []string{"Only one"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/polls/%d/questions", poll.ID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
