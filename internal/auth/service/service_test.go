package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"domainwatch/internal/auth/store"
	"domainwatch/internal/jwttoken"
	otpservice "domainwatch/internal/otp/service"
	otpstore "domainwatch/internal/otp/store"
	"domainwatch/pkg/platform/sentinel"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type fakeEmail struct {
	mu     sync.Mutex
	sent   []string
	bodies []string
	err    error
}

func (f *fakeEmail) Send(_ context.Context, to, _, htmlBody string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, htmlBody)
	return "msg-1", nil
}

func (f *fakeEmail) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.bodies)
	code := codePattern.FindString(f.bodies[len(f.bodies)-1])
	require.Len(t, code, 6)
	return code
}

func newTestService(email *fakeEmail) (*Service, *store.InMemoryStore) {
	users := store.NewInMemoryStore()
	codes := otpservice.New(otpstore.NewInMemory(0))
	tokens := jwttoken.NewService("test-signing-key", time.Hour)
	return New(users, codes, email, tokens), users
}

func TestRequestCodeSendsVerificationEmail(t *testing.T) {
	email := &fakeEmail{}
	svc, _ := newTestService(email)

	err := svc.RequestCode(context.Background(), "Ada", "Ada@Example.com", "correct-horse")
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ada@example.com", email.sent[0])
	assert.Contains(t, email.bodies[0], email.lastCode(t))
	assert.Contains(t, email.bodies[0], "10 minutes")
}

func TestRequestCodeValidation(t *testing.T) {
	svc, _ := newTestService(&fakeEmail{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.RequestCode(ctx, "", "a@b.com", "correct-horse"), ErrInvalidInput)
	assert.ErrorIs(t, svc.RequestCode(ctx, "Ada", "not-an-email", "correct-horse"), ErrInvalidInput)
	assert.ErrorIs(t, svc.RequestCode(ctx, "Ada", "a@b.com", "short"), ErrInvalidInput)
}

func TestRequestCodeRejectsExistingEmail(t *testing.T) {
	email := &fakeEmail{}
	svc, _ := newTestService(email)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse"))
	_, _, err := svc.VerifyCode(ctx, "ada@example.com", email.lastCode(t))
	require.NoError(t, err)

	err = svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestRequestCodeRollsBackOnDeliveryFailure(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	svc, _ := newTestService(email)
	ctx := context.Background()

	err := svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse")
	require.Error(t, err)

	// The pending entry must be gone, any code would hit not-found.
	_, _, err = svc.VerifyCode(ctx, "ada@example.com", "123456")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestVerifyCodeCreatesUserAndToken(t *testing.T) {
	email := &fakeEmail{}
	svc, users := newTestService(email)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse"))

	user, token, err := svc.VerifyCode(ctx, "ADA@example.com", email.lastCode(t))
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.EmailNotifications)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))

	tokens := jwttoken.NewService("test-signing-key", time.Hour)
	id, err := tokens.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	stored, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	email := &fakeEmail{}
	svc, _ := newTestService(email)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse"))

	wrong := "000000"
	if email.lastCode(t) == wrong {
		wrong = "000001"
	}
	_, _, err := svc.VerifyCode(ctx, "ada@example.com", wrong)
	assert.ErrorIs(t, err, sentinel.ErrMismatch)

	// The right code still works afterwards.
	_, _, err = svc.VerifyCode(ctx, "ada@example.com", email.lastCode(t))
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	email := &fakeEmail{}
	svc, _ := newTestService(email)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "Ada", "ada@example.com", "correct-horse"))
	_, _, err := svc.VerifyCode(ctx, "ada@example.com", email.lastCode(t))
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "Ada@Example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, sentinel.ErrMismatch)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, sentinel.ErrMismatch)
	})
}
