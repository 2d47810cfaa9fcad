package models

import (
	"github.com/google/uuid"

	id "docnotify/pkg/domain"
)

// ResourceType names the kind of resource a capability query targets.
type ResourceType string

const (
	ResourceCollection ResourceType = "collection"
	ResourceDocument   ResourceType = "document"
)

// Resource identifies the subject of a capability query.
type Resource struct {
	Type ResourceType
	ID   uuid.UUID
}

// Capabilities is the oracle's answer for one (user, resource) pair. The zero
// value denies everything.
type Capabilities struct {
	Read   bool
	Update bool
	Share  bool
}

// CollectionResource targets a collection.
func CollectionResource(collectionID id.CollectionID) Resource {
	return Resource{Type: ResourceCollection, ID: uuid.UUID(collectionID)}
}
