package directory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
	"docnotify/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	teamID := id.TeamID(uuid.New())

	alice := models.User{ID: id.UserID(uuid.New()), TeamID: teamID, Name: "Alice"}
	bob := models.User{ID: id.UserID(uuid.New()), TeamID: teamID, Name: "Bob"}
	carol := models.User{ID: id.UserID(uuid.New()), TeamID: teamID, Name: "Carol"}
	outsider := models.User{ID: id.UserID(uuid.New()), TeamID: id.TeamID(uuid.New()), Name: "Dan"}
	for _, u := range []models.User{alice, bob, carol, outsider} {
		require.NoError(t, store.PutUser(ctx, u))
	}

	t.Run("roster keeps insertion order and skips suspended members", func(t *testing.T) {
		require.NoError(t, store.Suspend(ctx, bob.ID))

		members, err := store.TeamMembers(ctx, teamID)
		require.NoError(t, err)
		assert.Equal(t, []id.UserID{alice.ID, carol.ID}, members)
	})

	t.Run("users lookup omits unknown ids", func(t *testing.T) {
		unknown := id.UserID(uuid.New())
		users, err := store.Users(ctx, []id.UserID{alice.ID, unknown})
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "Alice", users[alice.ID].Name)
	})

	t.Run("documents are copied out", func(t *testing.T) {
		doc := models.Document{
			ID:              id.DocumentID(uuid.New()),
			TeamID:          teamID,
			Title:           "Runbook",
			UpdatedAt:       time.Now(),
			CollaboratorIDs: []id.UserID{alice.ID},
		}
		require.NoError(t, store.PutDocument(ctx, doc))

		got, err := store.Document(ctx, doc.ID)
		require.NoError(t, err)
		got.CollaboratorIDs[0] = carol.ID

		again, err := store.Document(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []id.UserID{alice.ID}, again.CollaboratorIDs)

		require.NoError(t, store.DeleteDocument(ctx, doc.ID))
		_, err = store.Document(ctx, doc.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
