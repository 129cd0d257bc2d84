package repository

import (
	"context"

	"pollster-backend/models"

	"gorm.io/gorm"
)

// TokenRepository defines data access for vote tokens
type TokenRepository interface {
	// ExistingCodes returns a point-in-time snapshot of every token code
	// currently stored, across all polls.
	ExistingCodes(ctx context.Context) (map[string]struct{}, error)
	// InsertBatch inserts all tokens in one statement; a uniqueness
	// violation fails the whole batch.
	InsertBatch(ctx context.Context, tokens []models.VoteToken) error
	ListByPoll(ctx context.Context, pollID uint) ([]models.VoteToken, error)
	// PollIDByCode resolves a token code to its poll. Returns
	// gorm.ErrRecordNotFound when the code is unknown.
	PollIDByCode(ctx context.Context, code string) (uint, error)
}

// GormTokenRepository implements TokenRepository on a gorm connection
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a token repository
func NewTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// ExistingCodes loads all token codes into a set
func (r *GormTokenRepository) ExistingCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Model(&models.VoteToken{}).Pluck("token", &codes).Error; err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		existing[code] = struct{}{}
	}
	return existing, nil
}

// InsertBatch inserts the accumulated tokens as a single batch
func (r *GormTokenRepository) InsertBatch(ctx context.Context, tokens []models.VoteToken) error {
	return r.db.WithContext(ctx).Create(&tokens).Error
}

// ListByPoll returns every token issued for the poll
func (r *GormTokenRepository) ListByPoll(ctx context.Context, pollID uint) ([]models.VoteToken, error) {
	var tokens []models.VoteToken
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("id").
		Find(&tokens).Error
	return tokens, err
}

// PollIDByCode resolves a token code to its poll id
func (r *GormTokenRepository) PollIDByCode(ctx context.Context, code string) (uint, error) {
	var token models.VoteToken
	err := r.db.WithContext(ctx).
		Select("poll_id").
		Where("token = ?", code).
		First(&token).Error
	if err != nil {
		return 0, err
	}
	return token.PollID, nil
}
