package repository

import (
	"context"

	"pollster-backend/models"

	"gorm.io/gorm"
)

// QuestionLinkRow is one poll question link joined with its question text
type QuestionLinkRow struct {
	LinkID     uint   `json:"link_id"`
	QuestionID uint   `json:"question_id"`
	Question   string `json:"question"`
}

// LinkOptionRow is one option reachable from a poll question link
type LinkOptionRow struct {
	LinkID   uint   `json:"link_id"`
	OptionID uint   `json:"option_id"`
	Label    string `json:"label"`
}

// VoteCountRow is an aggregate vote count for one (link, option) pair
type VoteCountRow struct {
	LinkID   uint  `json:"link_id"`
	OptionID uint  `json:"option_id"`
	Votes    int64 `json:"votes"`
}

// ReportRepository defines the read queries behind tally aggregation.
// Each method is one independently failable fetch stage.
type ReportRepository interface {
	PollByID(ctx context.Context, id uint) (*models.Poll, error)
	QuestionLinks(ctx context.Context, pollID uint) ([]QuestionLinkRow, error)
	LinkOptions(ctx context.Context, pollID uint) ([]LinkOptionRow, error)
	VoteCounts(ctx context.Context, linkIDs []uint) ([]VoteCountRow, error)
}

// GormReportRepository implements ReportRepository on a gorm connection
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a report repository
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// PollByID fetches the poll record. Returns gorm.ErrRecordNotFound when
// the poll does not exist.
func (r *GormReportRepository) PollByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).First(&poll, id).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

// QuestionLinks fetches the poll's question links with their question
// text, ordered by link id
func (r *GormReportRepository) QuestionLinks(ctx context.Context, pollID uint) ([]QuestionLinkRow, error) {
	var rows []QuestionLinkRow
	err := r.db.WithContext(ctx).
		Table("poll_questions").
		Select("poll_questions.id AS link_id, poll_questions.question_id, questions.text AS question").
		Joins("JOIN questions ON questions.id = poll_questions.question_id").
		Where("poll_questions.poll_id = ?", pollID).
		Order("poll_questions.id").
		Scan(&rows).Error
	return rows, err
}

// LinkOptions fetches every option reachable from the poll's question
// links, tagged with the link it belongs to. Option id ascending keeps
// the per-question ordering deterministic.
func (r *GormReportRepository) LinkOptions(ctx context.Context, pollID uint) ([]LinkOptionRow, error) {
	var rows []LinkOptionRow
	err := r.db.WithContext(ctx).
		Table("poll_questions").
		Select("poll_questions.id AS link_id, options.id AS option_id, options.label").
		Joins("JOIN questions_options ON questions_options.question_id = poll_questions.question_id").
		Joins("JOIN options ON options.id = questions_options.option_id").
		Where("poll_questions.poll_id = ?", pollID).
		Order("poll_questions.id, options.id").
		Scan(&rows).Error
	return rows, err
}

// VoteCounts fetches grouped vote counts for exactly the given links.
// Votes referencing links outside the set never enter the result.
func (r *GormReportRepository) VoteCounts(ctx context.Context, linkIDs []uint) ([]VoteCountRow, error) {
	if len(linkIDs) == 0 {
		return nil, nil
	}

	var rows []VoteCountRow
	err := r.db.WithContext(ctx).
		Table("votes").
		Select("votes.poll_question_id AS link_id, votes.option_id, COUNT(*) AS votes").
		Where("votes.poll_question_id IN ?", linkIDs).
		Group("votes.poll_question_id, votes.option_id").
		Scan(&rows).Error
	return rows, err
}
