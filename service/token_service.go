package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"pollster-backend/models"
	"pollster-backend/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidPollID    = errors.New("poll id is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-request limit")
	ErrTokenNotFound    = errors.New("token not found")
)

const (
	// Codes are 6-digit with no leading zero: [100000, 999999].
	codeMin  = 100000
	codeSpan = 900000

	// MaxTokensPerRequest bounds one issuance batch. The code space holds
	// 900000 values; rejection sampling stays cheap as long as the table
	// stays far from full, which this cap helps maintain.
	MaxTokensPerRequest = 1000
)

// TokenService issues single-use access tokens for polls
type TokenService struct {
	repo repository.TokenRepository
}

// NewTokenService creates a token service
func NewTokenService(repo repository.TokenRepository) *TokenService {
	return &TokenService{repo: repo}
}

// Issue generates quantity distinct 6-digit codes absent from the store,
// inserts them as one batch tied to pollID and returns them.
//
// The existing-code set is a snapshot, not a lock: two concurrent calls
// can generate the same code. The unique index on vote_tokens.token
// rejects the losing batch and the caller retries the whole request;
// there is no internal retry loop.
func (s *TokenService) Issue(ctx context.Context, pollID uint, quantity int) ([]string, error) {
	if pollID == 0 {
		return nil, ErrInvalidPollID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity > MaxTokensPerRequest {
		return nil, ErrQuantityTooLarge
	}

	existing, err := s.repo.ExistingCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing tokens: %w", err)
	}

	codes := make([]string, 0, quantity)
	batch := make(map[string]struct{}, quantity)
	for len(codes) < quantity {
		code := fmt.Sprintf("%d", codeMin+rand.Intn(codeSpan))
		if _, taken := existing[code]; taken {
			continue
		}
		if _, taken := batch[code]; taken {
			continue
		}
		batch[code] = struct{}{}
		codes = append(codes, code)
	}

	tokens := make([]models.VoteToken, quantity)
	for i, code := range codes {
		tokens[i] = models.VoteToken{
			Token:  code,
			PollID: pollID,
		}
	}

	if err := s.repo.InsertBatch(ctx, tokens); err != nil {
		return nil, fmt.Errorf("failed to insert token batch: %w", err)
	}

	return codes, nil
}

// List returns every token issued for the poll
func (s *TokenService) List(ctx context.Context, pollID uint) ([]models.VoteToken, error) {
	if pollID == 0 {
		return nil, ErrInvalidPollID
	}

	tokens, err := s.repo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// FindPollByCode resolves a token code to the poll it grants access to
func (s *TokenService) FindPollByCode(ctx context.Context, code string) (uint, error) {
	pollID, err := s.repo.PollIDByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTokenNotFound
		}
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return pollID, nil
}
