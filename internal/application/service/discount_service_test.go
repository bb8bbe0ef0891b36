package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/pkg/logger"
)

// fakeChallengeRepo is an in-memory OtpChallengeRepository
type fakeChallengeRepo struct {
	challenges map[string]*entity.DiscountOtpChallenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[string]*entity.DiscountOtpChallenge)}
}

func (f *fakeChallengeRepo) Upsert(ctx context.Context, c *entity.DiscountOtpChallenge) error {
	cp := *c
	f.challenges[c.AttemptID] = &cp
	return nil
}

func (f *fakeChallengeRepo) GetByAttemptID(ctx context.Context, attemptID string) (*entity.DiscountOtpChallenge, error) {
	c, ok := f.challenges[attemptID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChallengeRepo) MarkVerified(ctx context.Context, attemptID string) error {
	if c, ok := f.challenges[attemptID]; ok {
		now := time.Now()
		c.VerifiedAt = &now
	}
	return nil
}

func (f *fakeChallengeRepo) DeleteExpired(ctx context.Context) error {
	for id, c := range f.challenges {
		if c.IsExpired() && c.ConsumedAt == nil {
			delete(f.challenges, id)
		}
	}
	return nil
}

// fakeSender records sent messages and can simulate gateway failures
type fakeSender struct {
	sent []string
	fail error
}

func (f *fakeSender) Send(ctx context.Context, phone, message string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, message)
	return nil
}

func testTenant(approverPhone string) *entity.Tenant {
	return &entity.Tenant{
		ID:   uuid.New(),
		Name: "Test Store",
		Slug: "test",
		Settings: entity.TenantConfig{
			StoreName:     "Test Store",
			Currency:      "INR",
			ApproverPhone: approverPhone,
		},
	}
}

func TestSendOtpRequiresApproverChannel(t *testing.T) {
	svc := NewDiscountService(newFakeChallengeRepo(), &fakeSender{}, logger.New("error"), time.Minute)

	err := svc.SendOtp(context.Background(), testTenant(""), "att-1")
	if !errors.Is(err, ErrChannelUnavailable) {
		t.Fatalf("err = %v, want ErrChannelUnavailable", err)
	}
}

func TestSendAndVerifyOtp(t *testing.T) {
	repo := newFakeChallengeRepo()
	sender := &fakeSender{}
	svc := NewDiscountService(repo, sender, logger.New("error"), time.Minute)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if svc.State("att-1") != AuthStateOtpRequested {
		t.Fatalf("state = %v, want OtpRequested", svc.State("att-1"))
	}

	code := repo.challenges["att-1"].Code
	auth, err := svc.VerifyOtp(ctx, "att-1", code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if auth.AttemptID() != "att-1" {
		t.Fatalf("attempt = %q, want att-1", auth.AttemptID())
	}
	if svc.State("att-1") != AuthStateVerified {
		t.Fatalf("state = %v, want Verified", svc.State("att-1"))
	}
}

func TestVerifyOtpWrongCodeIsRetryable(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewDiscountService(repo, &fakeSender{}, logger.New("error"), time.Minute)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if _, err := svc.VerifyOtp(ctx, "att-1", "000000"); !errors.Is(err, ErrOtpRejected) {
		t.Fatalf("err = %v, want ErrOtpRejected", err)
	}
	if svc.State("att-1") != AuthStateRejected {
		t.Fatalf("state = %v, want Rejected", svc.State("att-1"))
	}

	// a fresh code for the same attempt replaces the rejected one
	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("re-send failed: %v", err)
	}
	code := repo.challenges["att-1"].Code
	if _, err := svc.VerifyOtp(ctx, "att-1", code); err != nil {
		t.Fatalf("verify after re-send failed: %v", err)
	}
}

func TestVerifyOtpExpired(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewDiscountService(repo, &fakeSender{}, logger.New("error"), time.Minute)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	repo.challenges["att-1"].ExpiresAt = time.Now().Add(-time.Second)

	code := repo.challenges["att-1"].Code
	if _, err := svc.VerifyOtp(ctx, "att-1", code); !errors.Is(err, ErrOtpExpired) {
		t.Fatalf("err = %v, want ErrOtpExpired", err)
	}
}

func TestVerifyOtpUnknownAttempt(t *testing.T) {
	svc := NewDiscountService(newFakeChallengeRepo(), &fakeSender{}, logger.New("error"), time.Minute)

	if _, err := svc.VerifyOtp(context.Background(), "nope", "123456"); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("err = %v, want ErrAuthorizationRequired", err)
	}
}

func TestSendOtpGatewayFailure(t *testing.T) {
	sender := &fakeSender{fail: errors.New("gateway down")}
	svc := NewDiscountService(newFakeChallengeRepo(), sender, logger.New("error"), time.Minute)

	if err := svc.SendOtp(context.Background(), testTenant("+919900000001"), "att-1"); err == nil {
		t.Fatal("expected error when gateway is down")
	}
	if svc.State("att-1") != AuthStateIdle {
		t.Fatalf("state = %v, want Idle", svc.State("att-1"))
	}
}

func TestAuthorizationReload(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewDiscountService(repo, &fakeSender{}, logger.New("error"), time.Minute)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// before verification there is nothing to reload
	if _, err := svc.Authorization(ctx, "att-1"); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("err = %v, want ErrAuthorizationRequired", err)
	}

	code := repo.challenges["att-1"].Code
	if _, err := svc.VerifyOtp(ctx, "att-1", code); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	auth, err := svc.Authorization(ctx, "att-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if auth.AttemptID() != "att-1" {
		t.Fatalf("attempt = %q, want att-1", auth.AttemptID())
	}

	// a consumed challenge no longer authorizes anything
	now := time.Now()
	repo.challenges["att-1"].ConsumedAt = &now
	if _, err := svc.Authorization(ctx, "att-1"); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("err after consume = %v, want ErrAuthorizationRequired", err)
	}
}

func TestConsumeReturnsAttemptToIdle(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := NewDiscountService(repo, &fakeSender{}, logger.New("error"), time.Minute)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, testTenant("+919900000001"), "att-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	auth, err := svc.VerifyOtp(ctx, "att-1", repo.challenges["att-1"].Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if svc.State("att-1") != AuthStateVerified {
		t.Fatalf("state = %v, want Verified", svc.State("att-1"))
	}

	if err := auth.Consume(); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if svc.State("att-1") != AuthStateIdle {
		t.Fatalf("state after consume = %v, want Idle", svc.State("att-1"))
	}
}

func TestDiscountAuthorizationConsumeOnce(t *testing.T) {
	auth := &DiscountAuthorization{attemptID: "att-9"}
	if err := auth.Consume(); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if err := auth.Consume(); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("second consume err = %v, want ErrAuthorizationRequired", err)
	}
}
