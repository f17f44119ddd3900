package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemodels "domainwatch/internal/domaincache/models"
	"domainwatch/internal/userdomain/store"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

type fakeResolver struct {
	entries map[string]*cachemodels.Entry
	err     error
	calls   []string
}

func (f *fakeResolver) Resolve(_ context.Context, domain string) (*cachemodels.Entry, error) {
	f.calls = append(f.calls, domain)
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[domain]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return entry, nil
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Example.COM", want: "example.com"},
		{in: "  example.com  ", want: "example.com"},
		{in: "www.example.com", want: "example.com"},
		{in: "no-dot", wantErr: true},
		{in: "", wantErr: true},
		{in: "exa mple.com", wantErr: true},
	}
	for _, tc := range tests {
		got, err := NormalizeName(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDomain, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestAddEnrichesFromResolver(t *testing.T) {
	now := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	userID := uuid.New()

	resolver := &fakeResolver{entries: map[string]*cachemodels.Entry{
		"example.com": {
			Name: "example.com", CreatedDate: "2001-05-14", ExpiryDate: "2027-05-14",
			Registrar: "Sample Registrar Inc.", Status: cachemodels.StatusActive,
			FullDetails: []byte(`{"status":1}`),
		},
	}}
	svc := New(store.NewInMemoryStore(), resolver)

	domain, err := svc.Add(ctx, userID, "Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "example.com", domain.Name)
	assert.Equal(t, "2027-05-14", domain.ExpiryDate)
	assert.Equal(t, cachemodels.StatusActive, domain.Status)
	assert.Equal(t, now, domain.AddedAt)
	assert.NotZero(t, domain.ID)
}

func TestAddDegradesWhenResolverFails(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	resolver := &fakeResolver{err: errors.New("upstream down")}
	svc := New(store.NewInMemoryStore(), resolver)

	domain, err := svc.Add(ctx, userID, "example.com")
	require.NoError(t, err)
	assert.Equal(t, cachemodels.UnknownDate, domain.ExpiryDate)
	assert.Equal(t, cachemodels.StatusUnknown, domain.Status)
}

func TestAddRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	resolver := &fakeResolver{err: errors.New("upstream down")}
	svc := New(store.NewInMemoryStore(), resolver)

	_, err := svc.Add(ctx, userID, "example.com")
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, "EXAMPLE.com")
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestListAndRemove(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	resolver := &fakeResolver{err: errors.New("upstream down")}
	svc := New(store.NewInMemoryStore(), resolver)

	first, err := svc.Add(ctx, userID, "a.com")
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, "b.com")
	require.NoError(t, err)

	domains, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, domains, 2)
	assert.Equal(t, "b.com", domains[0].Name, "newest first")

	err = svc.Remove(ctx, first.ID, other)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "cannot remove another user's domain")

	require.NoError(t, svc.Remove(ctx, first.ID, userID))
	domains, err = svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, domains, 1)
}
