package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/pomelo-checker/internal/domain"
)

// MockAPIKeyRepository is a mock implementation of domain.APIKeyRepository.
type MockAPIKeyRepository struct {
	mu            sync.Mutex
	Keys          map[string]*domain.APIKey
	UserKeys      []domain.APIKey
	TouchedIDs    []string
	FindCalls     int
	FindErr       error
	ListErr       error
	TouchErr      error
}

func (m *MockAPIKeyRepository) FindActive(ctx context.Context, key string) (*domain.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	k, ok := m.Keys[key]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return k, nil
}

func (m *MockAPIKeyRepository) ListForUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.UserKeys, nil
}

func (m *MockAPIKeyRepository) TouchRequest(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TouchErr != nil {
		return m.TouchErr
	}
	m.TouchedIDs = append(m.TouchedIDs, id)
	return nil
}

// MockTokenRepository is a mock implementation of domain.TokenRepository.
type MockTokenRepository struct {
	mu             sync.Mutex
	ActiveToken    *domain.UserToken
	UserTokens     []domain.UserToken
	DeactivatedIDs []string
	UsageID        string
	UsageAdded     int
	UsageCalls     int
	Created        []domain.UserToken
	DeletedIDs     []string
	FindErr        error
	ListErr        error
	CreateErr      error
	DeleteErr      error
	DeactivateErr  error
	UsageErr       error
}

func (m *MockTokenRepository) FindActive(ctx context.Context, userID, tokenName string) (*domain.UserToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if m.ActiveToken == nil {
		return nil, domain.ErrNoActiveToken
	}
	return m.ActiveToken, nil
}

func (m *MockTokenRepository) ListForUser(ctx context.Context, userID string) ([]domain.UserToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.UserTokens, nil
}

func (m *MockTokenRepository) Create(ctx context.Context, token *domain.UserToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, *token)
	return nil
}

func (m *MockTokenRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

func (m *MockTokenRepository) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeactivateErr != nil {
		return m.DeactivateErr
	}
	m.DeactivatedIDs = append(m.DeactivatedIDs, id)
	return nil
}

func (m *MockTokenRepository) RecordUsage(ctx context.Context, id string, n int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UsageErr != nil {
		return m.UsageErr
	}
	m.UsageID = id
	m.UsageAdded += n
	m.UsageCalls++
	return nil
}

// MockSavedUsernameRepository is a mock implementation of domain.SavedUsernameRepository.
type MockSavedUsernameRepository struct {
	mu         sync.Mutex
	Saved      []domain.SavedUsername
	Created    []domain.SavedUsername
	UpdatedIDs []string
	DeletedIDs []string
	ListErr    error
	CountErr   error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error
}

func (m *MockSavedUsernameRepository) ListForUser(ctx context.Context, userID string) ([]domain.SavedUsername, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Saved, nil
}

func (m *MockSavedUsernameRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Saved), nil
}

func (m *MockSavedUsernameRepository) Create(ctx context.Context, saved *domain.SavedUsername) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, *saved)
	return nil
}

func (m *MockSavedUsernameRepository) Update(ctx context.Context, userID, id string, notes *string, isClaimed *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedIDs = append(m.UpdatedIDs, id)
	return nil
}

func (m *MockSavedUsernameRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository.
type MockProfileRepository struct {
	Profile         *domain.Profile
	Subscription    *domain.Subscription
	ProfileErr      error
	SubscriptionErr error
}

func (m *MockProfileRepository) Find(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	if m.Profile == nil {
		return nil, domain.ErrNotFound
	}
	return m.Profile, nil
}

func (m *MockProfileRepository) FindActiveSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	if m.SubscriptionErr != nil {
		return nil, m.SubscriptionErr
	}
	if m.Subscription == nil {
		return nil, domain.ErrNotFound
	}
	return m.Subscription, nil
}

// MockHistoryRepository is a mock implementation of domain.HistoryRepository.
type MockHistoryRepository struct {
	mu          sync.Mutex
	Checks      []domain.CheckRecord
	APILogs     []domain.APILogEntry
	Counts      domain.CheckCounts
	LastRequest *time.Time
	InsertErr   error
	CountErr    error
	LogErr      error
	LastErr     error
}

func (m *MockHistoryRepository) InsertCheck(ctx context.Context, rec *domain.CheckRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Checks = append(m.Checks, *rec)
	return nil
}

func (m *MockHistoryRepository) CountChecks(ctx context.Context, userID string) (domain.CheckCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return domain.CheckCounts{}, m.CountErr
	}
	return m.Counts, nil
}

func (m *MockHistoryRepository) InsertAPILog(ctx context.Context, entry *domain.APILogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LogErr != nil {
		return m.LogErr
	}
	m.APILogs = append(m.APILogs, *entry)
	return nil
}

func (m *MockHistoryRepository) LastAPIRequest(ctx context.Context, userID string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LastErr != nil {
		return nil, m.LastErr
	}
	return m.LastRequest, nil
}

// MockQuotaRepository is a mock implementation of domain.QuotaRepository.
type MockQuotaRepository struct {
	mu         sync.Mutex
	Wait       time.Duration
	Used       int
	Increments int
	ReserveErr error
	UsedErr    error
	IncrErr    error
}

func (m *MockQuotaRepository) ReserveInterval(ctx context.Context, keyID string, interval time.Duration) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReserveErr != nil {
		return 0, m.ReserveErr
	}
	return m.Wait, nil
}

func (m *MockQuotaRepository) UsedToday(ctx context.Context, keyID string, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UsedErr != nil {
		return 0, m.UsedErr
	}
	return m.Used, nil
}

func (m *MockQuotaRepository) IncrementDaily(ctx context.Context, keyID string, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrErr != nil {
		return 0, m.IncrErr
	}
	m.Increments++
	m.Used++
	return m.Used, nil
}

// MockDiscordClient is a mock implementation of domain.DiscordClient.
type MockDiscordClient struct {
	mu          sync.Mutex
	CheckFunc   func(ctx context.Context, token, username string) (domain.ProbeResult, error)
	LookupFunc  func(ctx context.Context, userID string) (*domain.DiscordUser, error)
	CheckCalls  []string
	LookupCalls []string
}

func (m *MockDiscordClient) CheckUsername(ctx context.Context, token, username string) (domain.ProbeResult, error) {
	m.mu.Lock()
	m.CheckCalls = append(m.CheckCalls, username)
	m.mu.Unlock()
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, token, username)
	}
	return domain.ProbeResult{StatusCode: 200}, nil
}

func (m *MockDiscordClient) LookupUser(ctx context.Context, userID string) (*domain.DiscordUser, error) {
	m.mu.Lock()
	m.LookupCalls = append(m.LookupCalls, userID)
	m.mu.Unlock()
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}
