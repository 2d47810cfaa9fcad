//go:build integration

package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	id "docnotify/pkg/domain"
)

// fixtures seeds the application tables the notifier reads.
type fixtures struct {
	t   *testing.T
	db  *sql.DB
	ctx context.Context
}

func (f fixtures) user(teamID id.TeamID, name string, joined time.Time) id.UserID {
	f.t.Helper()
	userID := id.UserID(uuid.New())
	_, err := f.db.ExecContext(f.ctx, `
		INSERT INTO users (id, team_id, name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(userID), uuid.UUID(teamID), name, name+"@example.com", joined,
	)
	require.NoError(f.t, err)
	return userID
}

func (f fixtures) suspend(userID id.UserID) {
	f.t.Helper()
	_, err := f.db.ExecContext(f.ctx, `UPDATE users SET suspended_at = now() WHERE id = $1`, uuid.UUID(userID))
	require.NoError(f.t, err)
}

// collection creates a collection; permission "" makes it private.
func (f fixtures) collection(teamID id.TeamID, permission string) id.CollectionID {
	f.t.Helper()
	collectionID := id.CollectionID(uuid.New())
	perm := sql.NullString{String: permission, Valid: permission != ""}
	_, err := f.db.ExecContext(f.ctx, `
		INSERT INTO collections (id, team_id, permission) VALUES ($1, $2, $3)`,
		uuid.UUID(collectionID), uuid.UUID(teamID), perm,
	)
	require.NoError(f.t, err)
	return collectionID
}

func (f fixtures) document(teamID id.TeamID, collectionID id.CollectionID, title string, lastEditor id.UserID, updatedAt time.Time, collaborators ...id.UserID) id.DocumentID {
	f.t.Helper()
	documentID := id.DocumentID(uuid.New())
	ids := make([]string, 0, len(collaborators))
	for _, c := range collaborators {
		ids = append(ids, c.String())
	}
	_, err := f.db.ExecContext(f.ctx, `
		INSERT INTO documents (id, team_id, collection_id, title, last_modified_by_id, updated_at, collaborator_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7::uuid[])`,
		uuid.UUID(documentID), uuid.UUID(teamID), uuid.UUID(collectionID), title,
		uuid.UUID(lastEditor), updatedAt, pq.Array(ids),
	)
	require.NoError(f.t, err)
	return documentID
}

func (f fixtures) deleteDocument(documentID id.DocumentID) {
	f.t.Helper()
	_, err := f.db.ExecContext(f.ctx, `UPDATE documents SET deleted_at = now() WHERE id = $1`, uuid.UUID(documentID))
	require.NoError(f.t, err)
}

func (f fixtures) grantUser(collectionID id.CollectionID, userID id.UserID, permission string) {
	f.t.Helper()
	_, err := f.db.ExecContext(f.ctx, `
		INSERT INTO collection_users (collection_id, user_id, permission) VALUES ($1, $2, $3)`,
		uuid.UUID(collectionID), uuid.UUID(userID), permission,
	)
	require.NoError(f.t, err)
}

func (f fixtures) grantGroup(teamID id.TeamID, collectionID id.CollectionID, permission string, members ...id.UserID) {
	f.t.Helper()
	groupID := uuid.New()
	_, err := f.db.ExecContext(f.ctx, `INSERT INTO groups (id, team_id) VALUES ($1, $2)`, groupID, uuid.UUID(teamID))
	require.NoError(f.t, err)
	for _, m := range members {
		_, err = f.db.ExecContext(f.ctx, `INSERT INTO group_users (group_id, user_id) VALUES ($1, $2)`, groupID, uuid.UUID(m))
		require.NoError(f.t, err)
	}
	_, err = f.db.ExecContext(f.ctx, `
		INSERT INTO collection_groups (collection_id, group_id, permission) VALUES ($1, $2, $3)`,
		uuid.UUID(collectionID), groupID, permission,
	)
	require.NoError(f.t, err)
}

func (f fixtures) removeFromGroups(userID id.UserID) {
	f.t.Helper()
	_, err := f.db.ExecContext(f.ctx, `UPDATE group_users SET deleted_at = now() WHERE user_id = $1`, uuid.UUID(userID))
	require.NoError(f.t, err)
}

var allTables = []string{
	"notification_settings", "collection_groups", "group_users", "groups",
	"collection_users", "documents", "collections", "users",
}
