package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	authmodels "domainwatch/internal/auth/models"
	"domainwatch/internal/otp/models"
	"domainwatch/pkg/platform/sentinel"
)

type OTPStoreSuite struct {
	suite.Suite
	now time.Time
}

func (s *OTPStoreSuite) SetupTest() {
	s.now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func TestOTPStoreSuite(t *testing.T) {
	suite.Run(t, new(OTPStoreSuite))
}

func (s *OTPStoreSuite) entry(code string, expiresAt time.Time) *models.Entry {
	return &models.Entry{
		Code:      code,
		Pending:   authmodels.PendingRegistration{Name: "Alice", Email: "alice@example.com"},
		IssuedAt:  s.now,
		ExpiresAt: expiresAt,
	}
}

func (s *OTPStoreSuite) TestPutOverwritesSameEmail() {
	st := NewInMemory(0)
	s.Require().NoError(st.Put(context.Background(), "alice@example.com", s.entry("111111", s.now.Add(time.Minute))))
	s.Require().NoError(st.Put(context.Background(), "alice@example.com", s.entry("222222", s.now.Add(time.Minute))))

	got, err := st.Get(context.Background(), "alice@example.com")
	s.Require().NoError(err)
	s.Equal("222222", got.Code)
}

func (s *OTPStoreSuite) TestGetUnknownEmail() {
	st := NewInMemory(0)
	_, err := st.Get(context.Background(), "nobody@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *OTPStoreSuite) TestDeleteExpired() {
	st := NewInMemory(0)
	s.Require().NoError(st.Put(context.Background(), "expired@example.com", s.entry("111111", s.now.Add(-time.Minute))))
	s.Require().NoError(st.Put(context.Background(), "live@example.com", s.entry("222222", s.now.Add(time.Minute))))

	deleted, err := st.DeleteExpired(context.Background(), s.now)
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = st.Get(context.Background(), "expired@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = st.Get(context.Background(), "live@example.com")
	s.Require().NoError(err)
}

func (s *OTPStoreSuite) TestCapacityBound() {
	st := NewInMemory(2)
	s.Require().NoError(st.Put(context.Background(), "a@example.com", s.entry("111111", s.now.Add(time.Minute))))
	s.Require().NoError(st.Put(context.Background(), "b@example.com", s.entry("222222", s.now.Add(time.Minute))))

	s.Run("full of live entries rejects new emails", func() {
		err := st.Put(context.Background(), "c@example.com", s.entry("333333", s.now.Add(time.Minute)))
		s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("existing email can still be overwritten", func() {
		s.Require().NoError(st.Put(context.Background(), "a@example.com", s.entry("444444", s.now.Add(time.Minute))))
	})

	s.Run("expired slots are reclaimed before rejecting", func() {
		expired := s.entry("555555", s.now.Add(-time.Hour))
		s.Require().NoError(st.Put(context.Background(), "a@example.com", expired))

		fresh := s.entry("666666", s.now.Add(time.Minute))
		fresh.IssuedAt = s.now
		s.Require().NoError(st.Put(context.Background(), "c@example.com", fresh))
	})
}

func (s *OTPStoreSuite) TestConcurrentPuts() {
	st := NewInMemory(0)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			email := fmt.Sprintf("user%d@example.com", i)
			_ = st.Put(context.Background(), email, s.entry("123456", s.now.Add(time.Minute)))
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	deleted, err := st.DeleteExpired(context.Background(), s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(8, deleted)
}
