package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/umbra/akane/internal/models"
)

// ErrAlreadyConfigured means the exact enable/disable rule already exists.
var ErrAlreadyConfigured = errors.New("store: command rule already set")

// IsPlonked reports whether the member, or optionally the channel, is on the
// guild's ignore list.
func (s *Store) IsPlonked(ctx context.Context, guildID, memberID int64, channelID *int64) (bool, error) {
	var row int
	var err error
	if channelID == nil {
		query := `SELECT 1 FROM plonks WHERE guild_id = $1 AND entity_id = $2`
		err = s.pool.QueryRow(ctx, query, guildID, memberID).Scan(&row)
	} else {
		query := `SELECT 1 FROM plonks WHERE guild_id = $1 AND entity_id IN ($2, $3)`
		err = s.pool.QueryRow(ctx, query, guildID, memberID, *channelID).Scan(&row)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check plonks: %v", err)
	}
	return true, nil
}

func (s *Store) Plonks(ctx context.Context, guildID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT entity_id FROM plonks WHERE guild_id = $1`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plonks: %v", err)
	}
	defer rows.Close()

	var entities []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		entities = append(entities, id)
	}
	return entities, rows.Err()
}

func (s *Store) AddPlonk(ctx context.Context, guildID, entityID int64) error {
	query := `INSERT INTO plonks (guild_id, entity_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.pool.Exec(ctx, query, guildID, entityID); err != nil {
		return fmt.Errorf("failed to add plonk: %v", err)
	}
	return nil
}

// AddPlonks bulk-ignores entities, skipping ones already present. The copy
// protocol keeps this one round trip even for "ignore all".
func (s *Store) AddPlonks(ctx context.Context, guildID int64, entityIDs []int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.Plonks(ctx, guildID)
	if err != nil {
		return err
	}
	existing := make(map[int64]bool, len(current))
	for _, id := range current {
		existing[id] = true
	}

	var toInsert [][]interface{}
	for _, id := range entityIDs {
		if !existing[id] {
			toInsert = append(toInsert, []interface{}{guildID, id})
			existing[id] = true
		}
	}

	if len(toInsert) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"plonks"},
			[]string{"guild_id", "entity_id"},
			pgx.CopyFromRows(toInsert),
		)
		if err != nil {
			return fmt.Errorf("failed to copy plonks: %v", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) RemovePlonks(ctx context.Context, guildID int64, entityIDs []int64) error {
	query := `DELETE FROM plonks WHERE guild_id = $1 AND entity_id = ANY($2::bigint[])`
	if _, err := s.pool.Exec(ctx, query, guildID, entityIDs); err != nil {
		return fmt.Errorf("failed to remove plonks: %v", err)
	}
	return nil
}

func (s *Store) ClearPlonks(ctx context.Context, guildID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM plonks WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to clear plonks: %v", err)
	}
	return nil
}

func (s *Store) CommandPermissions(ctx context.Context, guildID int64) ([]models.CommandConfig, error) {
	query := `SELECT id, guild_id, channel_id, name, whitelist FROM command_config WHERE guild_id = $1`

	rows, err := s.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query command config: %v", err)
	}
	defer rows.Close()

	var configs []models.CommandConfig
	for rows.Next() {
		var c models.CommandConfig
		if err := rows.Scan(&c.ID, &c.GuildID, &c.ChannelID, &c.Name, &c.Whitelist); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// SetCommandPermission replaces whatever rule exists for (guild, channel,
// name) with the given whitelist state. A nil channelID targets the guild.
func (s *Store) SetCommandPermission(ctx context.Context, guildID int64, channelID *int64, name string, whitelist bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if channelID == nil {
		_, err = tx.Exec(ctx, `DELETE FROM command_config WHERE guild_id = $1 AND name = $2 AND channel_id IS NULL`, guildID, name)
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM command_config WHERE guild_id = $1 AND name = $2 AND channel_id = $3`, guildID, name, *channelID)
	}
	if err != nil {
		return fmt.Errorf("failed to clear command rule: %v", err)
	}

	query := `INSERT INTO command_config (guild_id, channel_id, name, whitelist) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, guildID, channelID, name, whitelist); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyConfigured
		}
		return fmt.Errorf("failed to insert command rule: %v", err)
	}

	return tx.Commit(ctx)
}
