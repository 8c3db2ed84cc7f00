package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umbra/akane/internal/models"
)

func (s *Store) SetWelcome(ctx context.Context, guildID, channelID int64, message string) error {
	query := `
		INSERT INTO welcome_config (guild_id, welcome_channel, welcome_message)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id)
		DO UPDATE SET welcome_channel = $2, welcome_message = $3`

	if _, err := s.pool.Exec(ctx, query, guildID, channelID, message); err != nil {
		return fmt.Errorf("failed to set welcome config: %v", err)
	}
	return nil
}

func (s *Store) Welcome(ctx context.Context, guildID int64) (*models.WelcomeConfig, error) {
	query := `SELECT guild_id, welcome_channel, welcome_message FROM welcome_config WHERE guild_id = $1`

	var w models.WelcomeConfig
	err := s.pool.QueryRow(ctx, query, guildID).Scan(&w.GuildID, &w.ChannelID, &w.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch welcome config: %v", err)
	}
	return &w, nil
}

func (s *Store) RemoveWelcome(ctx context.Context, guildID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM welcome_config WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to remove welcome config: %v", err)
	}
	return nil
}
