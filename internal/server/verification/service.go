// Package verification issues and checks the numeric second-factor codes
// sent after a successful password check.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/dmitrijs2005/flock/internal/server/repositories/challenges"
)

const (
	DefaultExpiry      = 4 * time.Minute
	DefaultMaxAttempts = 3
)

// Sender delivers a code to the identifier over channel.
type Sender interface {
	Send(ctx context.Context, identifier string, channel models.Channel, code string) error
}

// LogSender writes codes to the log instead of delivering them.
type LogSender struct {
	Log logging.Logger
}

func (s LogSender) Send(ctx context.Context, identifier string, channel models.Channel, code string) error {
	s.Log.Info(ctx, "verification code issued",
		"identifier", identifier, "channel", string(channel), "code", code)
	return nil
}

type Option func(*Service)

func WithExpiry(d time.Duration) Option {
	return func(s *Service) { s.expiry = d }
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.generate = gen }
}

type Service struct {
	store       challenges.Repository
	sender      Sender
	log         logging.Logger
	expiry      time.Duration
	maxAttempts int
	now         func() time.Time
	generate    func() (string, error)

	// serializes read-modify-write of a challenge
	mu sync.Mutex
}

func NewService(store challenges.Repository, sender Sender, log logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		sender:      sender,
		log:         log,
		expiry:      DefaultExpiry,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		generate:    GenerateCode,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GenerateCode returns a uniformly random six-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Send replaces any outstanding challenge for identifier with a fresh one
// and delivers its code.
func (s *Service) Send(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error) {
	code, err := s.generate()
	if err != nil {
		return models.ChallengeInfo{}, fmt.Errorf("generate code: %w", err)
	}

	c := models.Challenge{
		Identifier:  identifier,
		Channel:     channel,
		Code:        code,
		ExpiresAt:   s.now().Add(s.expiry),
		MaxAttempts: s.maxAttempts,
	}

	s.mu.Lock()
	err = s.store.Put(ctx, c, s.expiry)
	s.mu.Unlock()
	if err != nil {
		return models.ChallengeInfo{}, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if err := s.sender.Send(ctx, identifier, channel, code); err != nil {
		s.log.Error(ctx, "code delivery failed", "identifier", identifier, "channel", string(channel), "error", err)
		_ = s.store.Delete(ctx, identifier)
		return models.ChallengeInfo{}, fmt.Errorf("%w: %v", common.ErrCodeDeliveryFailed, err)
	}

	return models.ChallengeInfo{Channel: channel, ExpiresAt: c.ExpiresAt, MaxAttempts: c.MaxAttempts}, nil
}

// Resend invalidates the current code and issues a new one with a full
// attempt budget.
func (s *Service) Resend(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error) {
	if err := s.store.Delete(ctx, identifier); err != nil {
		return models.ChallengeInfo{}, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return s.Send(ctx, identifier, channel)
}

// Validate consumes one attempt against the challenge for identifier. The
// challenge is removed on success, on expiry and once attempts run out.
func (s *Service) Validate(ctx context.Context, identifier string, channel models.Channel, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, identifier)
	if err != nil {
		return err
	}

	if c.Expired(s.now()) {
		s.drop(ctx, identifier)
		return common.ErrCodeExpired
	}
	if c.Remaining() == 0 {
		s.drop(ctx, identifier)
		return common.ErrAttemptsExhausted
	}

	c.AttemptsUsed++

	if c.Channel == channel && c.Code == code {
		s.drop(ctx, identifier)
		return nil
	}

	if c.Remaining() == 0 {
		s.drop(ctx, identifier)
		return &common.VerificationError{Err: common.ErrAttemptsExhausted}
	}

	if err := s.store.Put(ctx, *c, c.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return &common.VerificationError{Err: common.ErrCodeMismatch, Remaining: c.Remaining()}
}

// RemainingTime returns how long the outstanding code stays valid, zero when
// there is none.
func (s *Service) RemainingTime(ctx context.Context, identifier string) (time.Duration, error) {
	c, err := s.load(ctx, identifier)
	if errors.Is(err, common.ErrNoChallenge) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if d := c.ExpiresAt.Sub(s.now()); d > 0 {
		return d, nil
	}
	return 0, nil
}

// HasValidCode reports whether identifier has a live challenge with attempts
// left. Dead challenges are removed on the way.
func (s *Service) HasValidCode(ctx context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, identifier)
	if errors.Is(err, common.ErrNoChallenge) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.Expired(s.now()) || c.Remaining() == 0 {
		s.drop(ctx, identifier)
		return false, nil
	}
	return true, nil
}

func (s *Service) load(ctx context.Context, identifier string) (*models.Challenge, error) {
	c, err := s.store.Get(ctx, identifier)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrNoChallenge
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return c, nil
}

func (s *Service) drop(ctx context.Context, identifier string) {
	if err := s.store.Delete(ctx, identifier); err != nil {
		s.log.Warn(ctx, "failed to delete challenge", "identifier", identifier, "error", err)
	}
}
