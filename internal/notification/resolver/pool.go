package resolver

import (
	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

// pool is the working candidate set. Candidates keep roster order and appear
// once; removals are recorded with the stage that made them.
type pool struct {
	candidates []id.UserID
	suppressed []models.Suppression
}

func newPool(members []id.UserID) *pool {
	seen := make(map[id.UserID]struct{}, len(members))
	candidates := make([]id.UserID, 0, len(members))
	for _, u := range members {
		if u.IsNil() {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		candidates = append(candidates, u)
	}
	return &pool{candidates: candidates}
}

func (p *pool) retain(stage models.Stage, keep func(id.UserID) bool) {
	decisions := make([]bool, len(p.candidates))
	for i, u := range p.candidates {
		decisions[i] = keep(u)
	}
	p.apply(stage, decisions)
}

// apply keeps candidates[i] where decisions[i] is true.
func (p *pool) apply(stage models.Stage, decisions []bool) {
	kept := p.candidates[:0]
	for i, u := range p.candidates {
		if decisions[i] {
			kept = append(kept, u)
			continue
		}
		p.suppressed = append(p.suppressed, models.Suppression{UserID: u, Stage: stage})
	}
	p.candidates = kept
}
