package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	authmodels "domainwatch/internal/auth/models"
	"domainwatch/internal/otp/store"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

type OTPServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	service *Service
	now     time.Time
	ctx     context.Context
}

func (s *OTPServiceSuite) SetupTest() {
	s.store = store.NewInMemory(0)
	s.service = New(s.store)
	s.now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func TestOTPServiceSuite(t *testing.T) {
	suite.Run(t, new(OTPServiceSuite))
}

func pendingAlice() authmodels.PendingRegistration {
	return authmodels.PendingRegistration{Name: "Alice", Email: "alice@example.com", Password: "$2a$10$hash"}
}

func (s *OTPServiceSuite) TestIssueProducesSixDigitCode() {
	code, err := s.service.Issue(s.ctx, "Alice@Example.com ", pendingAlice())
	s.Require().NoError(err)
	s.Regexp(`^[0-9]{6}$`, code)
}

func (s *OTPServiceSuite) TestVerifyIsSingleUse() {
	code, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)

	pending, err := s.service.Verify(s.ctx, "alice@example.com", code)
	s.Require().NoError(err)
	s.Equal(pendingAlice(), pending)

	_, err = s.service.Verify(s.ctx, "alice@example.com", code)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *OTPServiceSuite) TestVerifyNormalizesEmail() {
	code, err := s.service.Issue(s.ctx, "  ALICE@example.com", pendingAlice())
	s.Require().NoError(err)

	_, err = s.service.Verify(s.ctx, "alice@EXAMPLE.com ", code)
	s.Require().NoError(err)
}

func (s *OTPServiceSuite) TestVerifyWrongCodeKeepsEntry() {
	code, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = s.service.Verify(s.ctx, "alice@example.com", wrong)
	s.Require().ErrorIs(err, sentinel.ErrMismatch)

	// The right code still works after a failed attempt.
	_, err = s.service.Verify(s.ctx, "alice@example.com", code)
	s.Require().NoError(err)
}

func (s *OTPServiceSuite) TestVerifyAfterExpiryDeletesEntry() {
	code, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)

	later := requestcontext.WithTime(context.Background(), s.now.Add(TTL+time.Second))
	_, err = s.service.Verify(later, "alice@example.com", code)
	s.Require().ErrorIs(err, sentinel.ErrExpired)

	// The expired entry was consumed by the failed verify.
	_, err = s.store.Get(context.Background(), "alice@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *OTPServiceSuite) TestReissueOverwrites() {
	first, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)
	second, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)

	if first != second {
		_, err = s.service.Verify(s.ctx, "alice@example.com", first)
		s.Require().ErrorIs(err, sentinel.ErrMismatch)
	}
	_, err = s.service.Verify(s.ctx, "alice@example.com", second)
	s.Require().NoError(err)
}

func (s *OTPServiceSuite) TestSweepRemovesExpiredEntries() {
	_, err := s.service.Issue(s.ctx, "old@example.com", pendingAlice())
	s.Require().NoError(err)

	later := s.now.Add(TTL + time.Minute)
	laterCtx := requestcontext.WithTime(context.Background(), later)
	_, err = s.service.Issue(laterCtx, "fresh@example.com", pendingAlice())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Sweep(laterCtx))

	_, err = s.store.Get(context.Background(), "old@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Get(context.Background(), "fresh@example.com")
	s.Require().NoError(err)
}

func (s *OTPServiceSuite) TestCancelRollsBackIssued() {
	_, err := s.service.Issue(s.ctx, "alice@example.com", pendingAlice())
	s.Require().NoError(err)
	s.Require().NoError(s.service.Cancel(s.ctx, "alice@example.com"))
	_, err = s.service.Verify(s.ctx, "alice@example.com", "123456")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
