package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
	"docnotify/pkg/platform/sentinel"
)

// PostgresStore reads rosters, users and documents from the application
// database. It never writes.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// TeamMembers returns active members ordered by join time.
func (s *PostgresStore) TeamMembers(ctx context.Context, teamID id.TeamID) ([]id.UserID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM users
		WHERE team_id = $1 AND suspended_at IS NULL AND deleted_at IS NULL
		ORDER BY created_at, id`,
		uuid.UUID(teamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []id.UserID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, id.UserID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// Users returns the users found among userIDs; unknown ids are absent from the map.
func (s *PostgresStore) Users(ctx context.Context, userIDs []id.UserID) (map[id.UserID]models.User, error) {
	out := make(map[id.UserID]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(userIDs))
	for i, u := range userIDs {
		ids[i] = u.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, name, email FROM users
		WHERE id = ANY($1::uuid[])`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, teamID uuid.UUID
		var user models.User
		if err := rows.Scan(&userID, &teamID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.ID = id.UserID(userID)
		user.TeamID = id.TeamID(teamID)
		out[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return out, nil
}

// Document returns sentinel.ErrNotFound for missing or deleted documents.
func (s *PostgresStore) Document(ctx context.Context, documentID id.DocumentID) (*models.Document, error) {
	var (
		teamID        uuid.UUID
		collectionID  uuid.NullUUID
		lastEditor    uuid.NullUUID
		collaborators pq.StringArray
		doc           models.Document
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT team_id, collection_id, title, last_modified_by_id, updated_at, collaborator_ids::text[]
		FROM documents
		WHERE id = $1 AND deleted_at IS NULL`,
		uuid.UUID(documentID),
	).Scan(&teamID, &collectionID, &doc.Title, &lastEditor, &doc.UpdatedAt, &collaborators)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}

	doc.ID = documentID
	doc.TeamID = id.TeamID(teamID)
	if collectionID.Valid {
		doc.CollectionID = id.CollectionID(collectionID.UUID)
	}
	if lastEditor.Valid {
		doc.LastModifiedByID = id.UserID(lastEditor.UUID)
	}
	doc.CollaboratorIDs = make([]id.UserID, 0, len(collaborators))
	for _, raw := range collaborators {
		userID, err := id.ParseUserID(raw)
		if err != nil {
			return nil, fmt.Errorf("document %s has invalid collaborator id: %w", documentID, err)
		}
		doc.CollaboratorIDs = append(doc.CollaboratorIDs, userID)
	}
	return &doc, nil
}
