package policy

import (
	"context"
	"sync"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

type grantKey struct {
	user     id.UserID
	resource models.Resource
}

// StaticOracle answers capability queries from explicit grants. Anything not
// granted is denied.
type StaticOracle struct {
	mu     sync.RWMutex
	grants map[grantKey]models.Capabilities
}

func NewStaticOracle() *StaticOracle {
	return &StaticOracle{grants: make(map[grantKey]models.Capabilities)}
}

// Grant replaces the capabilities userID holds on resource.
func (o *StaticOracle) Grant(userID id.UserID, resource models.Resource, caps models.Capabilities) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.grants[grantKey{userID, resource}] = caps
}

// Revoke removes every capability userID holds on resource.
func (o *StaticOracle) Revoke(userID id.UserID, resource models.Resource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.grants, grantKey{userID, resource})
}

func (o *StaticOracle) Abilities(_ context.Context, userID id.UserID, resource models.Resource) (models.Capabilities, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.grants[grantKey{userID, resource}], nil
}
