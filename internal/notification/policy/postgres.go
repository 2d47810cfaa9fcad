package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

// PostgresOracle derives capabilities from collection permissions stored in
// the application database. A user's grants combine the collection's
// team-wide permission, direct memberships and group memberships. Removed
// group members (soft-deleted group_users rows) gain nothing from the group.
type PostgresOracle struct {
	db *sql.DB
}

func NewPostgresOracle(db *sql.DB) *PostgresOracle {
	return &PostgresOracle{db: db}
}

// Abilities never errors for a missing or deleted resource; it denies instead.
func (o *PostgresOracle) Abilities(ctx context.Context, userID id.UserID, resource models.Resource) (models.Capabilities, error) {
	switch resource.Type {
	case models.ResourceCollection:
		return o.collectionAbilities(ctx, userID, resource.ID)
	case models.ResourceDocument:
		collectionID, err := o.documentCollection(ctx, resource.ID)
		if err != nil || collectionID == uuid.Nil {
			return models.Capabilities{}, err
		}
		return o.collectionAbilities(ctx, userID, collectionID)
	default:
		return models.Capabilities{}, fmt.Errorf("unsupported resource type %q", resource.Type)
	}
}

func (o *PostgresOracle) documentCollection(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	var collectionID uuid.NullUUID
	err := o.db.QueryRowContext(ctx, `
		SELECT collection_id FROM documents
		WHERE id = $1 AND deleted_at IS NULL`,
		documentID,
	).Scan(&collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("find document collection: %w", err)
	}
	return collectionID.UUID, nil
}

func (o *PostgresOracle) collectionAbilities(ctx context.Context, userID id.UserID, collectionID uuid.UUID) (models.Capabilities, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT c.permission
		FROM collections c
		JOIN users u ON u.team_id = c.team_id
		WHERE c.id = $1 AND u.id = $2
		  AND c.deleted_at IS NULL AND c.permission IS NOT NULL
		  AND u.suspended_at IS NULL AND u.deleted_at IS NULL
		UNION ALL
		SELECT cu.permission
		FROM collection_users cu
		JOIN collections c ON c.id = cu.collection_id AND c.deleted_at IS NULL
		WHERE cu.collection_id = $1 AND cu.user_id = $2
		UNION ALL
		SELECT cg.permission
		FROM collection_groups cg
		JOIN group_users gu ON gu.group_id = cg.group_id AND gu.deleted_at IS NULL
		JOIN collections c ON c.id = cg.collection_id AND c.deleted_at IS NULL
		WHERE cg.collection_id = $1 AND gu.user_id = $2`,
		collectionID, uuid.UUID(userID),
	)
	if err != nil {
		return models.Capabilities{}, fmt.Errorf("query collection permissions: %w", err)
	}
	defer rows.Close()

	var caps models.Capabilities
	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return models.Capabilities{}, fmt.Errorf("scan collection permission: %w", err)
		}
		caps = merge(caps, permission)
	}
	if err := rows.Err(); err != nil {
		return models.Capabilities{}, fmt.Errorf("query collection permissions: %w", err)
	}
	return caps, nil
}

// merge widens caps by one permission grant. Unknown grants add nothing.
func merge(caps models.Capabilities, permission string) models.Capabilities {
	switch permission {
	case "read":
		caps.Read = true
	case "read_write":
		caps.Read = true
		caps.Update = true
	case "admin":
		caps.Read = true
		caps.Update = true
		caps.Share = true
	}
	return caps
}
