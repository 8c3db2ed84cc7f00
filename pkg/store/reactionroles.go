package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umbra/akane/internal/models"
)

// ReactionRole returns the guild's reaction role config, or nil if unset.
func (s *Store) ReactionRole(ctx context.Context, guildID int64) (*models.ReactionRoleConfig, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM reaction_roles WHERE guild_id = $1`, guildID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reaction role config: %v", err)
	}

	var config models.ReactionRoleConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("failed to decode reaction role config: %v", err)
	}
	return &config, nil
}

func (s *Store) SetReactionRole(ctx context.Context, guildID int64, config models.ReactionRoleConfig) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode reaction role config: %v", err)
	}

	query := `
		INSERT INTO reaction_roles (guild_id, data)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET data = $2`

	if _, err := s.pool.Exec(ctx, query, guildID, raw); err != nil {
		return fmt.Errorf("failed to store reaction role config: %v", err)
	}
	return nil
}

func (s *Store) RemoveReactionRole(ctx context.Context, guildID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM reaction_roles WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to remove reaction role config: %v", err)
	}
	return nil
}
