package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
)

var admin = models.Identity{ID: "1", Email: "admin@sda.com", Name: "John Administrator", Role: models.RoleAdmin}

// fakeStore is a scripted credential store with one user and one code.
type fakeStore struct {
	mu sync.Mutex

	code        string
	attempts    int
	maxAttempts int
	usedTemp    map[string]bool
	sessions    map[string]models.Identity

	authCalls   int
	logoutCalls []string

	authenticateFn func(ctx context.Context, creds models.Credentials, method models.LoginMethod) (models.AuthResult, error)
	validateErr    error
	sendErr        error
	logoutErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		code:        "123456",
		maxAttempts: 3,
		usedTemp:    map[string]bool{},
		sessions:    map[string]models.Identity{"session-1": admin},
	}
}

func (f *fakeStore) Authenticate(ctx context.Context, creds models.Credentials, method models.LoginMethod) (models.AuthResult, error) {
	f.mu.Lock()
	f.authCalls++
	fn := f.authenticateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, creds, method)
	}

	if method == models.LoginFederated {
		return models.AuthResult{Identity: admin, Token: "session-1"}, nil
	}
	if creds.Identifier != admin.Email || creds.Password != "password123" {
		return models.AuthResult{}, common.ErrorUnauthorized
	}
	f.mu.Lock()
	f.attempts = 0
	f.mu.Unlock()
	return models.AuthResult{
		RequiresVerification: true,
		Pending: models.PendingVerification{
			Identifier:        creds.Identifier,
			Channel:           models.ChannelEmail,
			TempToken:         "temp-1",
			ExpiresAt:         time.Now().Add(4 * time.Minute),
			RemainingAttempts: f.maxAttempts,
		},
	}, nil
}

func (f *fakeStore) CompleteLogin(_ context.Context, tempToken, code string) (models.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.usedTemp[tempToken] {
		return models.Grant{}, common.ErrTokenReused
	}
	if f.attempts >= f.maxAttempts {
		return models.Grant{}, common.ErrNoChallenge
	}
	f.attempts++
	if code != f.code {
		remaining := f.maxAttempts - f.attempts
		if remaining <= 0 {
			return models.Grant{}, &common.VerificationError{Err: common.ErrAttemptsExhausted}
		}
		return models.Grant{}, &common.VerificationError{Err: common.ErrCodeMismatch, Remaining: remaining}
	}
	f.usedTemp[tempToken] = true
	return models.Grant{Identity: admin, Token: "session-1"}, nil
}

func (f *fakeStore) ValidateToken(_ context.Context, token string) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.validateErr != nil {
		return models.Identity{}, f.validateErr
	}
	id, ok := f.sessions[token]
	if !ok {
		return models.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}

func (f *fakeStore) SendCode(_ context.Context, _ string, channel models.Channel) (models.ChallengeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return models.ChallengeInfo{}, f.sendErr
	}
	f.attempts = 0
	return models.ChallengeInfo{
		Channel:     channel,
		ExpiresAt:   time.Now().Add(4 * time.Minute),
		MaxAttempts: f.maxAttempts,
		TempToken:   "temp-2",
	}, nil
}

func (f *fakeStore) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls = append(f.logoutCalls, token)
	return f.logoutErr
}

// memSession is an in-memory PersistedSession with injectable failures.
type memSession struct {
	mu      sync.Mutex
	data    map[string]string
	failSet map[string]error
	getErr  error
}

func newMemSession() *memSession {
	return &memSession{data: map[string]string{}, failSet: map[string]error{}}
}

func (s *memSession) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memSession) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSet[key]; err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *memSession) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memSession) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

var errBoom = errors.New("boom")
