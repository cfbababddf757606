package mock

import (
	"context"
	"sync"
	"time"

	"github.com/abrezinsky/bracketview/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SetLoadResponseError(errors.New("database error"))
//	svc := services.NewBracketService(log, client, mockRepo, mockRepo, nil, services.NewSession(), opts)
type Repository struct {
	repository.FullRepository

	mu                sync.Mutex
	saveResponseErr   error
	loadResponseErr   error
	getSettingErr     error
	setSettingErr     error
	recordRefreshErr  error
	saveResponseCalls int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

// SetSaveResponseError makes SaveResponse fail with err
func (r *Repository) SetSaveResponseError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveResponseErr = err
}

// SetLoadResponseError makes LoadResponse fail with err
func (r *Repository) SetLoadResponseError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadResponseErr = err
}

// SetGetSettingError makes GetSetting fail with err
func (r *Repository) SetGetSettingError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getSettingErr = err
}

// SetSetSettingError makes SetSetting fail with err
func (r *Repository) SetSetSettingError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setSettingErr = err
}

// SetRecordRefreshError makes RecordRefresh fail with err
func (r *Repository) SetRecordRefreshError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordRefreshErr = err
}

// SaveResponseCalls returns how many times SaveResponse was called
func (r *Repository) SaveResponseCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveResponseCalls
}

func (r *Repository) SaveResponse(ctx context.Context, key string, body []byte, fetchedAt time.Time) error {
	r.mu.Lock()
	r.saveResponseCalls++
	err := r.saveResponseErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.FullRepository.SaveResponse(ctx, key, body, fetchedAt)
}

func (r *Repository) LoadResponse(ctx context.Context, key string) (repository.CachedResponse, error) {
	r.mu.Lock()
	err := r.loadResponseErr
	r.mu.Unlock()
	if err != nil {
		return repository.CachedResponse{}, err
	}
	return r.FullRepository.LoadResponse(ctx, key)
}

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	err := r.getSettingErr
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	return r.FullRepository.GetSetting(ctx, key)
}

func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	r.mu.Lock()
	err := r.setSettingErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.FullRepository.SetSetting(ctx, key, value)
}

func (r *Repository) RecordRefresh(ctx context.Context, rec repository.RefreshRecord) error {
	r.mu.Lock()
	err := r.recordRefreshErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.FullRepository.RecordRefresh(ctx, rec)
}

// Ensure Repository implements FullRepository
var _ repository.FullRepository = (*Repository)(nil)
