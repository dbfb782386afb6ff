package incident

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"caretrust/database/repository/memstore"
	"caretrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newAllocator(store *memstore.Store) *IdentifierAllocator {
	a := NewIdentifierAllocator(store.Counters, store.Incidents)
	a.Now = func() time.Time { return fixedNow }
	return a
}

func storeIncident(t *testing.T, store *memstore.Store, number string, createdAt time.Time) {
	t.Helper()
	inc := models.Incident{IncidentNumber: number, CreatedAt: createdAt}
	require.NoError(t, store.Incidents.Create(context.Background(), &inc))
}

func TestParseIncidentSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"INC-2024-000042", 42, false},
		{"INC-2026-000000", 0, false},
		{"INC-2026-1234567", 1234567, false},
		{"INC-2024-00004x", 0, true},
		{"INC-2024", 0, true},
		{"INC-2024-", 0, true},
		{"INC-2024--1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIncidentSequence(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrMalformedIncidentNumber))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIncidentNumber(t *testing.T) {
	assert.Equal(t, "INC-2026-000043", FormatIncidentNumber(2026, 43))
	assert.Equal(t, "INC-2026-000001", FormatIncidentNumber(2026, 1))
	assert.Equal(t, "INC-2026-1000000", FormatIncidentNumber(2026, 1000000))
}

func TestAllocator_EmptyStoreStartsAtOne(t *testing.T) {
	store := memstore.New()
	got, err := newAllocator(store).Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000001", got)
}

func TestAllocator_ContinuesFromLatestIncidentAcrossYears(t *testing.T) {
	store := memstore.New()
	storeIncident(t, store, "INC-2024-000007", fixedNow.AddDate(-2, 0, 0))
	storeIncident(t, store, "INC-2024-000042", fixedNow.AddDate(-1, 0, 0))

	a := newAllocator(store)
	got, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000043", got)

	got, err = a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000044", got)
}

func TestAllocator_MalformedLatestNumberFailsLoudly(t *testing.T) {
	store := memstore.New()
	storeIncident(t, store, "INC-2025-oops", fixedNow.Add(-time.Hour))

	_, err := newAllocator(store).Next(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedIncidentNumber))
}

func TestAllocator_ExistingCounterIsAuthoritative(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Counters.SeedIfAbsent(context.Background(), "incidents:2026", 99))
	storeIncident(t, store, "INC-2026-000005", fixedNow.Add(-time.Hour))

	got, err := newAllocator(store).Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000100", got)
}

func TestAllocator_ConcurrentCallsNeverCollide(t *testing.T) {
	store := memstore.New()
	storeIncident(t, store, "INC-2025-000010", fixedNow.Add(-time.Hour))
	a := newAllocator(store)

	const n = 50
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := a.Next(context.Background())
			assert.NoError(t, err)
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.True(t, seen["INC-2026-000011"])
	assert.True(t, seen["INC-2026-000060"])
}
