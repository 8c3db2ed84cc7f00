package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umbra/akane/internal/models"
)

// MatchTimezone resolves user input against the seeded zone list. An exact
// (case-insensitive) hit returns the canonical name; otherwise the closest
// matches by trigram similarity are returned for the caller to offer.
func (s *Store) MatchTimezone(ctx context.Context, input string, limit int) (exact string, suggestions []string, err error) {
	if limit <= 0 {
		limit = 5
	}

	query := `SELECT name FROM timezones WHERE lower(name) = lower($1)`
	err = s.pool.QueryRow(ctx, query, input).Scan(&exact)
	if err == nil {
		return exact, nil, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", nil, fmt.Errorf("failed to match timezone: %v", err)
	}

	query = `SELECT name FROM timezones ORDER BY similarity(name, $1) DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, input, limit)
	if err != nil {
		return "", nil, fmt.Errorf("failed to query timezone suggestions: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", nil, err
		}
		suggestions = append(suggestions, name)
	}
	return "", suggestions, rows.Err()
}

// SetUserTimezone stores the zone and makes it public in the given guild.
func (s *Store) SetUserTimezone(ctx context.Context, userID, guildID int64, zone string) error {
	query := `
		INSERT INTO tz_store (user_id, guild_ids, tz)
		VALUES ($1, ARRAY[$2]::bigint[], $3)
		ON CONFLICT (user_id) DO UPDATE
		SET guild_ids = array_append(array_remove(tz_store.guild_ids, $2), $2), tz = $3`

	if _, err := s.pool.Exec(ctx, query, userID, guildID, zone); err != nil {
		return fmt.Errorf("failed to set timezone: %v", err)
	}
	return nil
}

// UserTimezone returns the member's zone if it is public in the guild.
func (s *Store) UserTimezone(ctx context.Context, userID, guildID int64) (*models.TimezoneEntry, error) {
	query := `SELECT user_id, guild_ids, tz FROM tz_store WHERE user_id = $1 AND $2 = ANY(guild_ids)`

	var entry models.TimezoneEntry
	err := s.pool.QueryRow(ctx, query, userID, guildID).Scan(&entry.UserID, &entry.GuildIDs, &entry.Zone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timezone: %v", err)
	}
	return &entry, nil
}

// RemoveUserTimezone hides the user's zone in one guild.
func (s *Store) RemoveUserTimezone(ctx context.Context, userID, guildID int64) error {
	query := `UPDATE tz_store SET guild_ids = array_remove(guild_ids, $2) WHERE user_id = $1`
	if _, err := s.pool.Exec(ctx, query, userID, guildID); err != nil {
		return fmt.Errorf("failed to remove timezone: %v", err)
	}
	return nil
}

// ClearUserTimezone forgets the user entirely.
func (s *Store) ClearUserTimezone(ctx context.Context, userID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tz_store WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear timezone: %v", err)
	}
	return nil
}

// PruneGuildTimezones runs when the bot leaves a guild.
func (s *Store) PruneGuildTimezones(ctx context.Context, guildID int64) error {
	query := `UPDATE tz_store SET guild_ids = array_remove(guild_ids, $1) WHERE $1 = ANY(guild_ids)`
	if _, err := s.pool.Exec(ctx, query, guildID); err != nil {
		return fmt.Errorf("failed to prune guild timezones: %v", err)
	}
	return nil
}
