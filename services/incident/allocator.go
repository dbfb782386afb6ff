package incident

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"caretrust/database/repository"
	counterRepo "caretrust/database/repository/counter"
	incidentRepo "caretrust/database/repository/incident"
)

// ParseIncidentSequence extracts the numeric suffix of an INC-<year>-<seq> number.
func ParseIncidentSequence(number string) (int64, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[2] == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedIncidentNumber, number)
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedIncidentNumber, number)
	}
	return seq, nil
}

func FormatIncidentNumber(year int, seq int64) string {
	return fmt.Sprintf("INC-%d-%06d", year, seq)
}

func counterKey(year int) string {
	return fmt.Sprintf("incidents:%d", year)
}

// IdentifierAllocator hands out incident numbers from an atomic per-year counter.
// A year's counter is seeded once from the newest stored incident, so numbering
// carries on from whatever was issued before the counter existed.
type IdentifierAllocator struct {
	Counter   counterRepo.SequenceStore
	Incidents incidentRepo.IncidentRepository
	Now       func() time.Time

	mu     sync.Mutex
	seeded map[int]bool
}

func NewIdentifierAllocator(counter counterRepo.SequenceStore, incidents incidentRepo.IncidentRepository) *IdentifierAllocator {
	return &IdentifierAllocator{
		Counter:   counter,
		Incidents: incidents,
		Now:       time.Now,
		seeded:    make(map[int]bool),
	}
}

// Next returns a fresh incident number for the current UTC year.
func (a *IdentifierAllocator) Next(ctx context.Context) (string, error) {
	year := a.Now().UTC().Year()
	key := counterKey(year)

	if err := a.ensureSeeded(ctx, year, key); err != nil {
		return "", err
	}
	seq, err := a.Counter.Increment(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to allocate incident number: %w", err)
	}
	return FormatIncidentNumber(year, seq), nil
}

func (a *IdentifierAllocator) ensureSeeded(ctx context.Context, year int, key string) error {
	a.mu.Lock()
	done := a.seeded[year]
	a.mu.Unlock()
	if done {
		return nil
	}

	exists, err := a.Counter.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		seed, err := a.latestSequence(ctx)
		if err != nil {
			return err
		}
		// losing a concurrent seed is fine: every seeder reads the same latest incident.
		if err := a.Counter.SeedIfAbsent(ctx, key, seed); err != nil {
			return err
		}
	}

	a.mu.Lock()
	if a.seeded == nil {
		a.seeded = make(map[int]bool)
	}
	a.seeded[year] = true
	a.mu.Unlock()
	return nil
}

func (a *IdentifierAllocator) latestSequence(ctx context.Context) (int64, error) {
	latest, err := a.Incidents.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read latest incident: %w", err)
	}
	seq, err := ParseIncidentSequence(latest.IncidentNumber)
	if err != nil {
		return 0, fmt.Errorf("latest incident %s: %w", latest.ID, err)
	}
	return seq, nil
}
