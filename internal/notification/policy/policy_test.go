package policy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

func TestStaticOracle(t *testing.T) {
	ctx := context.Background()
	oracle := NewStaticOracle()
	user := id.UserID(uuid.New())
	collection := models.CollectionResource(id.CollectionID(uuid.New()))

	caps, err := oracle.Abilities(ctx, user, collection)
	assert.NoError(t, err)
	assert.Equal(t, models.Capabilities{}, caps, "ungranted resources are denied")

	oracle.Grant(user, collection, models.Capabilities{Read: true, Update: true})
	caps, _ = oracle.Abilities(ctx, user, collection)
	assert.True(t, caps.Read)
	assert.True(t, caps.Update)

	other := models.CollectionResource(id.CollectionID(uuid.New()))
	caps, _ = oracle.Abilities(ctx, user, other)
	assert.False(t, caps.Read)

	oracle.Revoke(user, collection)
	caps, _ = oracle.Abilities(ctx, user, collection)
	assert.False(t, caps.Read)
}

func TestMergePermissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		want        models.Capabilities
	}{
		{name: "none", want: models.Capabilities{}},
		{name: "read", permissions: []string{"read"}, want: models.Capabilities{Read: true}},
		{name: "read_write", permissions: []string{"read_write"}, want: models.Capabilities{Read: true, Update: true}},
		{name: "admin", permissions: []string{"admin"}, want: models.Capabilities{Read: true, Update: true, Share: true}},
		{name: "widest grant wins", permissions: []string{"read", "admin", "read"}, want: models.Capabilities{Read: true, Update: true, Share: true}},
		{name: "unknown grant", permissions: []string{"owner"}, want: models.Capabilities{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caps models.Capabilities
			for _, p := range tt.permissions {
				caps = merge(caps, p)
			}
			assert.Equal(t, tt.want, caps)
		})
	}
}
