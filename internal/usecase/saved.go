package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/pomelo-checker/internal/domain"
)

// SavedListView is the response of the saved-usernames list endpoint.
type SavedListView struct {
	Total          int                    `json:"total"`
	SavedUsernames []domain.SavedUsername `json:"saved_usernames"`
}

// SavedUseCase manages a principal's bookmarked usernames.
type SavedUseCase struct {
	saved  domain.SavedUsernameRepository
	logger *slog.Logger
}

// NewSavedUseCase creates a new saved-usernames usecase.
func NewSavedUseCase(saved domain.SavedUsernameRepository, logger *slog.Logger) *SavedUseCase {
	return &SavedUseCase{saved: saved, logger: logger}
}

// List returns the principal's saved usernames, newest first. An empty list
// is a valid result, never an error.
func (uc *SavedUseCase) List(ctx context.Context, userID string) (*SavedListView, error) {
	saved, err := uc.saved.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = []domain.SavedUsername{}
	}
	return &SavedListView{Total: len(saved), SavedUsernames: saved}, nil
}

// Create bookmarks a username for the principal.
func (uc *SavedUseCase) Create(ctx context.Context, userID, username string, notes *string) (*domain.SavedUsername, error) {
	if username == "" {
		return nil, domain.ErrInvalidInput
	}
	saved := &domain.SavedUsername{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		Notes:    notes,
		SavedAt:  time.Now().UTC(),
	}
	if err := uc.saved.Create(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Update patches the notes and/or claimed flag of a saved username.
func (uc *SavedUseCase) Update(ctx context.Context, userID, id string, notes *string, isClaimed *bool) error {
	if notes == nil && isClaimed == nil {
		return domain.ErrInvalidInput
	}
	return uc.saved.Update(ctx, userID, id, notes, isClaimed)
}

// Delete removes a saved username owned by the principal.
func (uc *SavedUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.saved.Delete(ctx, userID, id)
}
