package models

// PollReport is the aggregated tally for one poll
type PollReport struct {
	Poll      Poll             `json:"poll"`
	Questions []QuestionResult `json:"questions"`
}

// QuestionResult is the tally for one poll question link
type QuestionResult struct {
	PollQuestionID uint           `json:"poll_question_id"`
	Question       string         `json:"question"`
	Options        []OptionResult `json:"options"`
	TotalVotes     int64          `json:"total_votes"`
}

// OptionResult is the tally for one option of a question
type OptionResult struct {
	OptionID   uint   `json:"option_id"`
	Label      string `json:"label"`
	Votes      int64  `json:"votes"`
	Percentage int    `json:"percentage"`
}
