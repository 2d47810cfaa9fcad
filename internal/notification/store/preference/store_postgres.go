package preference

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
	"docnotify/pkg/requestcontext"
)

// PostgresStore persists opt-ins in notification_settings. A row means enabled.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed preference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Enable(ctx context.Context, pref models.Preference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_settings (user_id, team_id, event, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, team_id, event) DO NOTHING`,
		uuid.UUID(pref.UserID), uuid.UUID(pref.TeamID), pref.Event.String(), requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("enable notification setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) Disable(ctx context.Context, pref models.Preference) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM notification_settings
		WHERE user_id = $1 AND team_id = $2 AND event = $3`,
		uuid.UUID(pref.UserID), uuid.UUID(pref.TeamID), pref.Event.String(),
	)
	if err != nil {
		return fmt.Errorf("disable notification setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsEnabled(ctx context.Context, userID id.UserID, teamID id.TeamID, eventType models.EventType) (bool, error) {
	var enabled bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notification_settings
			WHERE user_id = $1 AND team_id = $2 AND event = $3
		)`,
		uuid.UUID(userID), uuid.UUID(teamID), eventType.String(),
	).Scan(&enabled)
	if err != nil {
		return false, fmt.Errorf("check notification setting: %w", err)
	}
	return enabled, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, teamID id.TeamID) ([]models.Preference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event FROM notification_settings
		WHERE user_id = $1 AND team_id = $2
		ORDER BY event`,
		uuid.UUID(userID), uuid.UUID(teamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list notification settings: %w", err)
	}
	defer rows.Close()

	var prefs []models.Preference
	for rows.Next() {
		var event string
		if err := rows.Scan(&event); err != nil {
			return nil, fmt.Errorf("scan notification setting: %w", err)
		}
		prefs = append(prefs, models.Preference{UserID: userID, TeamID: teamID, Event: models.EventType(event)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notification settings: %w", err)
	}
	return prefs, nil
}
