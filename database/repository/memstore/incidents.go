package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
)

// IncidentRepo enforces the same uniqueness rules as the Mongo indexes:
// incident number, and source review when present.
type IncidentRepo struct {
	mu        sync.RWMutex
	incidents map[string]models.Incident
	order     []string // insertion order, ties on createdAt resolve to the later insert
}

func NewIncidentRepo() *IncidentRepo {
	return &IncidentRepo{incidents: make(map[string]models.Incident)}
}

func (r *IncidentRepo) Create(_ context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	for _, existing := range r.incidents {
		if existing.ID == incident.ID || existing.IncidentNumber == incident.IncidentNumber {
			return repository.ErrDuplicate
		}
		if incident.SourceReviewID != "" && existing.SourceReviewID == incident.SourceReviewID {
			return repository.ErrDuplicate
		}
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}
	incident.UpdatedAt = incident.CreatedAt

	r.incidents[incident.ID] = cloneIncident(*incident)
	r.order = append(r.order, incident.ID)
	return nil
}

func (r *IncidentRepo) GetByID(_ context.Context, id string) (*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inc, ok := r.incidents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneIncident(inc)
	return &out, nil
}

func (r *IncidentRepo) GetBySourceReview(_ context.Context, reviewID string) (*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inc := range r.incidents {
		if inc.SourceReviewID != "" && inc.SourceReviewID == reviewID {
			out := cloneIncident(inc)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *IncidentRepo) Latest(_ context.Context) (*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Incident
	for _, id := range r.order {
		inc := r.incidents[id]
		if latest == nil || !inc.CreatedAt.Before(latest.CreatedAt) {
			c := cloneIncident(inc)
			latest = &c
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *IncidentRepo) ListByCaregiverInRange(_ context.Context, caregiverID string, start, end time.Time) ([]models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Incident
	for _, inc := range r.incidents {
		if inc.CaregiverID == caregiverID && inRange(inc.CreatedAt, start, end) {
			out = append(out, cloneIncident(inc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *IncidentRepo) Update(_ context.Context, id string, update models.IncidentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inc, ok := r.incidents[id]
	if !ok {
		return repository.ErrNotFound
	}
	update.Apply(&inc)
	r.incidents[id] = inc
	return nil
}

// All returns every incident in insertion order.
func (r *IncidentRepo) All() []models.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Incident, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneIncident(r.incidents[id]))
	}
	return out
}

func cloneIncident(in models.Incident) models.Incident {
	out := in
	out.Tags = append([]string(nil), in.Tags...)
	out.Evidence = append([]string(nil), in.Evidence...)
	out.InvestigationTimeline = append([]models.TimelineEntry(nil), in.InvestigationTimeline...)
	return out
}
