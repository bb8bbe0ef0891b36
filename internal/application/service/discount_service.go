package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/notify"
	"github.com/sirupsen/logrus"
)

// DiscountAuthState is the state of one discount approval attempt
type DiscountAuthState int

const (
	AuthStateIdle DiscountAuthState = iota
	AuthStateOtpRequested
	AuthStateVerified
	AuthStateRejected
)

func (s DiscountAuthState) String() string {
	names := [...]string{"Idle", "OtpRequested", "Verified", "Rejected"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Idle"
	}
	return names[s]
}

// DiscountAuthorization is a one-shot token produced by a successful OTP
// verification. It admits exactly one Discount entry into a ledger.
type DiscountAuthorization struct {
	attemptID string
	onConsume func()

	mu       sync.Mutex
	consumed bool
}

// AttemptID returns the approval attempt this authorization belongs to
func (a *DiscountAuthorization) AttemptID() string {
	return a.attemptID
}

// Consume spends the authorization. A second call fails.
func (a *DiscountAuthorization) Consume() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.consumed {
		return ErrAuthorizationRequired
	}
	a.consumed = true
	if a.onConsume != nil {
		a.onConsume()
	}
	return nil
}

// DiscountService gates discretionary discounts behind an out-of-band OTP
// challenge sent to the tenant's approver. Challenges are persisted,
// single-use and time-bounded, keyed by the caller's attempt id.
type DiscountService struct {
	challenges  repository.OtpChallengeRepository
	sender      notify.Sender
	log         *logrus.Logger
	codeTTL     time.Duration
	sendTimeout time.Duration

	mu     sync.Mutex
	states map[string]DiscountAuthState
}

// NewDiscountService creates a new discount authorizer
func NewDiscountService(challenges repository.OtpChallengeRepository, sender notify.Sender, log *logrus.Logger, codeTTL time.Duration) *DiscountService {
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	return &DiscountService{
		challenges:  challenges,
		sender:      sender,
		log:         log,
		codeTTL:     codeTTL,
		sendTimeout: 10 * time.Second,
		states:      make(map[string]DiscountAuthState),
	}
}

// State returns the current state of an approval attempt
func (s *DiscountService) State(attemptID string) DiscountAuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[attemptID]
}

func (s *DiscountService) setState(attemptID string, state DiscountAuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == AuthStateIdle {
		delete(s.states, attemptID)
		return
	}
	s.states[attemptID] = state
}

// SendOtp generates a 6-digit code, persists the challenge and dispatches it
// to the tenant's approver channel. Re-sending for the same attempt replaces
// the previous code.
func (s *DiscountService) SendOtp(ctx context.Context, tenant *entity.Tenant, attemptID string) error {
	phone := tenant.Settings.ApproverPhone
	if phone == "" {
		return ErrChannelUnavailable
	}

	code, err := generateOtpCode()
	if err != nil {
		return fmt.Errorf("failed to generate approval code: %w", err)
	}

	challenge := &entity.DiscountOtpChallenge{
		TenantID:  tenant.ID,
		AttemptID: attemptID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL),
	}
	if err := s.challenges.Upsert(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	// Bounded wait: a slow gateway must not hang the till
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, phone, notify.FormatOtpMessage(tenant.Settings.StoreName, code)); err != nil {
		s.log.WithFields(logrus.Fields{
			"module":  "discount",
			"attempt": attemptID,
		}).WithError(err).Error("failed to dispatch approval code")
		return fmt.Errorf("failed to dispatch approval code: %w", err)
	}

	s.setState(attemptID, AuthStateOtpRequested)
	return nil
}

// VerifyOtp compares a candidate against the persisted challenge. Success
// yields a one-shot authorization; failure moves the attempt to Rejected and
// the caller may request a fresh code.
func (s *DiscountService) VerifyOtp(ctx context.Context, attemptID, candidate string) (*DiscountAuthorization, error) {
	challenge, err := s.challenges.GetByAttemptID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrAuthorizationRequired
	}
	if challenge.ConsumedAt != nil {
		return nil, ErrAuthorizationRequired
	}
	if challenge.IsExpired() {
		s.setState(attemptID, AuthStateRejected)
		return nil, ErrOtpExpired
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(candidate)) != 1 {
		s.setState(attemptID, AuthStateRejected)
		return nil, ErrOtpRejected
	}

	if err := s.challenges.MarkVerified(ctx, attemptID); err != nil {
		return nil, err
	}

	s.setState(attemptID, AuthStateVerified)
	return s.newAuthorization(attemptID), nil
}

// Authorization reloads a verified, unconsumed challenge as a one-shot
// token. Used when verification and posting happen in separate requests.
func (s *DiscountService) Authorization(ctx context.Context, attemptID string) (*DiscountAuthorization, error) {
	challenge, err := s.challenges.GetByAttemptID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if challenge == nil || !challenge.IsVerified() {
		return nil, ErrAuthorizationRequired
	}
	if challenge.IsExpired() {
		return nil, ErrOtpExpired
	}
	return s.newAuthorization(attemptID), nil
}

// newAuthorization ties the token back to the state map so a consumed
// attempt reads as Idle again.
func (s *DiscountService) newAuthorization(attemptID string) *DiscountAuthorization {
	return &DiscountAuthorization{
		attemptID: attemptID,
		onConsume: func() { s.setState(attemptID, AuthStateIdle) },
	}
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
