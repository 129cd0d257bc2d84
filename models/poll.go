package models

import "time"

// Poll represents a voting poll owned by a user and a company
type Poll struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Active      bool       `gorm:"default:true" json:"active"`
	UserID      uint       `gorm:"index" json:"user_id"`
	CompanyID   uint       `gorm:"index" json:"company_id"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"` // once in the past the poll is logically closed
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Question holds reusable question text; it is attached to polls
// through PollQuestion links
type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PollQuestion links a Question to a specific Poll. Votes and options
// are counted against the link, not the bare question.
type PollQuestion struct {
	ID         uint `gorm:"primarykey" json:"id"`
	PollID     uint `gorm:"index;not null" json:"poll_id"`
	QuestionID uint `gorm:"index;not null" json:"question_id"`
}

// Option is an answer choice offered by a question
type Option struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Label string `gorm:"not null" json:"label"`
}

// QuestionOption is the question-to-option link table
type QuestionOption struct {
	QuestionID uint `gorm:"primaryKey" json:"question_id"`
	OptionID   uint `gorm:"primaryKey" json:"option_id"`
}

// TableName keeps the legacy table name
func (QuestionOption) TableName() string { return "questions_options" }

// Vote is one cast vote, one row per vote. Tallies are computed on
// read, never stored.
type Vote struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	PollQuestionID uint      `gorm:"index;not null" json:"poll_question_id"`
	OptionID       uint      `gorm:"index;not null" json:"option_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// VoteToken is a single-use 6-digit access code for one poll. Codes are
// unique across the whole table, not per poll.
type VoteToken struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Token     string     `gorm:"size:6;uniqueIndex;not null" json:"token"`
	PollID    uint       `gorm:"index;not null" json:"poll_id"`
	Used      bool       `gorm:"default:false" json:"used"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// TableName keeps the legacy table name
func (VoteToken) TableName() string { return "vote_tokens" }

// CreatePollInput defines the expected input structure for creating a poll
type CreatePollInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	UserID      uint       `json:"user_id" binding:"required"`
	CompanyID   uint       `json:"company_id" binding:"required"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"`
}

// UpdatePollInput defines the expected input structure for updating a poll.
// Pointers distinguish between empty and not provided.
type UpdatePollInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Active      *bool      `json:"active"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"`
}

// AddQuestionInput defines the input for attaching a question with its
// options to a poll
type AddQuestionInput struct {
	Text    string   `json:"text" binding:"required"`
	Options []string `json:"options" binding:"required,min=2,dive,required"`
}

// IssueTokensInput defines the input for a token issuance request
type IssueTokensInput struct {
	Quantity int `json:"quantity" binding:"required"`
}
