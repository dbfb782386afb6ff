package memstore

import (
	"context"
	"sort"
	"sync"

	rankingRepo "caretrust/database/repository/ranking"
)

type Ranking struct {
	mu     sync.RWMutex
	scores map[string]float64
}

func NewRanking() *Ranking {
	return &Ranking{scores: make(map[string]float64)}
}

func (r *Ranking) Record(_ context.Context, caregiverID string, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[caregiverID] = score
	return nil
}

// Top orders like ZREVRANGE: score descending, then member descending.
func (r *Ranking) Top(_ context.Context, n int) ([]rankingRepo.Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	r.mu.RLock()
	out := make([]rankingRepo.Entry, 0, len(r.scores))
	for id, s := range r.scores {
		out = append(out, rankingRepo.Entry{CaregiverID: id, QualityScore: s})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].QualityScore != out[j].QualityScore {
			return out[i].QualityScore > out[j].QualityScore
		}
		return out[i].CaregiverID > out[j].CaregiverID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
