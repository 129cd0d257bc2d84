package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pollster-backend/models"
	"pollster-backend/repository"

	"gorm.io/gorm"
)

var (
	ErrPollNotFound = errors.New("poll not found")
	ErrAccessDenied = errors.New("poll belongs to another company")
)

// ReportService builds aggregated vote tallies for polls
type ReportService struct {
	repo repository.ReportRepository
}

// NewReportService creates a report service
func NewReportService(repo repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Report reconstructs the poll's questions, their options and the vote
// counts and percentages per option. Only the owning company may read
// the report.
//
// Questions, options and counts come from separate queries combined by
// keyed maps in memory; a vote only counts if its link belongs to the
// poll and its option belongs to that link's question.
func (s *ReportService) Report(ctx context.Context, pollID uint, companyID uint) (*models.PollReport, error) {
	poll, err := s.repo.PollByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to fetch poll: %w", err)
	}

	if poll.CompanyID != companyID {
		return nil, ErrAccessDenied
	}

	links, err := s.repo.QuestionLinks(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poll questions: %w", err)
	}

	report := &models.PollReport{
		Poll:      *poll,
		Questions: make([]models.QuestionResult, 0, len(links)),
	}

	// A poll with no questions yet is a valid terminal state
	if len(links) == 0 {
		return report, nil
	}

	optionRows, err := s.repo.LinkOptions(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options: %w", err)
	}

	optionsByLink := make(map[uint][]repository.LinkOptionRow, len(links))
	for _, row := range optionRows {
		optionsByLink[row.LinkID] = append(optionsByLink[row.LinkID], row)
	}

	linkIDs := make([]uint, len(links))
	for i, link := range links {
		linkIDs[i] = link.LinkID
	}

	countRows, err := s.repo.VoteCounts(ctx, linkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vote counts: %w", err)
	}

	type countKey struct {
		linkID   uint
		optionID uint
	}
	counts := make(map[countKey]int64, len(countRows))
	for _, row := range countRows {
		counts[countKey{row.LinkID, row.OptionID}] = row.Votes
	}

	for _, link := range links {
		result := models.QuestionResult{
			PollQuestionID: link.LinkID,
			Question:       link.Question,
			Options:        make([]models.OptionResult, 0, len(optionsByLink[link.LinkID])),
		}

		for _, opt := range optionsByLink[link.LinkID] {
			votes := counts[countKey{link.LinkID, opt.OptionID}]
			result.Options = append(result.Options, models.OptionResult{
				OptionID: opt.OptionID,
				Label:    opt.Label,
				Votes:    votes,
			})
			result.TotalVotes += votes
		}

		if result.TotalVotes > 0 {
			for i := range result.Options {
				result.Options[i].Percentage = roundPercentage(result.Options[i].Votes, result.TotalVotes)
			}
		}

		report.Questions = append(report.Questions, result)
	}

	return report, nil
}

// roundPercentage rounds half-up to the nearest whole percent
func roundPercentage(votes, total int64) int {
	return int(math.Round(float64(votes) / float64(total) * 100))
}
