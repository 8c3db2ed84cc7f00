package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/umbra/akane/internal/models"
)

func scanAlerts(rows pgx.Rows) ([]models.TwitchAlert, error) {
	defer rows.Close()

	var alerts []models.TwitchAlert
	for rows.Next() {
		var a models.TwitchAlert
		var game *string
		var liveAt *time.Time
		if err := rows.Scan(&a.ID, &a.GuildID, &a.ChannelID, &a.StreamerName, &game, &liveAt); err != nil {
			return nil, err
		}
		if game != nil {
			a.LastGame = *game
		}
		if liveAt != nil {
			a.LastLiveAt = *liveAt
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

const alertColumns = `id, guild_id, channel_id, streamer_name, streamer_last_game, streamer_last_datetime`

// TwitchAlerts returns every stream alert across all guilds, for the poller.
func (s *Store) TwitchAlerts(ctx context.Context) ([]models.TwitchAlert, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+alertColumns+` FROM twitchtable ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query twitch alerts: %v", err)
	}
	return scanAlerts(rows)
}

func (s *Store) TwitchAlertsForGuild(ctx context.Context, guildID int64) ([]models.TwitchAlert, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+alertColumns+` FROM twitchtable WHERE guild_id = $1 ORDER BY id`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query twitch alerts: %v", err)
	}
	return scanAlerts(rows)
}

func (s *Store) CountTwitchAlerts(ctx context.Context, guildID int64) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM twitchtable WHERE guild_id = $1`, guildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count twitch alerts: %v", err)
	}
	return count, nil
}

func (s *Store) AddTwitchAlert(ctx context.Context, guildID, channelID int64, streamer string) error {
	query := `INSERT INTO twitchtable (guild_id, channel_id, streamer_name) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, guildID, channelID, streamer); err != nil {
		return fmt.Errorf("failed to add twitch alert: %v", err)
	}
	return nil
}

func (s *Store) RemoveTwitchAlert(ctx context.Context, guildID int64, streamer string) (int64, error) {
	query := `DELETE FROM twitchtable WHERE guild_id = $1 AND streamer_name = $2`
	tag, err := s.pool.Exec(ctx, query, guildID, streamer)
	if err != nil {
		return 0, fmt.Errorf("failed to remove twitch alert: %v", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateTwitchAlertState records the last announced game and time so the
// poller doesn't re-announce the same stream.
func (s *Store) UpdateTwitchAlertState(ctx context.Context, id int64, game string, liveAt time.Time) error {
	query := `UPDATE twitchtable SET streamer_last_game = $2, streamer_last_datetime = $3 WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, id, game, liveAt); err != nil {
		return fmt.Errorf("failed to update twitch alert: %v", err)
	}
	return nil
}

func (s *Store) ClipFollows(ctx context.Context) ([]models.TwitchClipFollow, error) {
	query := `SELECT id, guild_id, channel_id, broadcaster_id, last_25_clips FROM twitchcliptable ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clip follows: %v", err)
	}
	defer rows.Close()

	var follows []models.TwitchClipFollow
	for rows.Next() {
		var f models.TwitchClipFollow
		if err := rows.Scan(&f.ID, &f.GuildID, &f.ChannelID, &f.BroadcasterID, &f.LastClips); err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}

func (s *Store) AddClipFollow(ctx context.Context, guildID, channelID int64, broadcasterID string) error {
	query := `INSERT INTO twitchcliptable (guild_id, channel_id, broadcaster_id) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, guildID, channelID, broadcasterID); err != nil {
		return fmt.Errorf("failed to add clip follow: %v", err)
	}
	return nil
}

func (s *Store) RemoveClipFollow(ctx context.Context, guildID int64, broadcasterID string) (int64, error) {
	query := `DELETE FROM twitchcliptable WHERE guild_id = $1 AND broadcaster_id = $2`
	tag, err := s.pool.Exec(ctx, query, guildID, broadcasterID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove clip follow: %v", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateClipList stores the most recent clip ids, trimmed to 25.
func (s *Store) UpdateClipList(ctx context.Context, id int64, clips []string) error {
	if len(clips) > 25 {
		clips = clips[len(clips)-25:]
	}
	query := `UPDATE twitchcliptable SET last_25_clips = $2 WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, id, clips); err != nil {
		return fmt.Errorf("failed to update clip list: %v", err)
	}
	return nil
}

// TwitchSecret returns the cached app token, or nil if none is stored yet.
func (s *Store) TwitchSecret(ctx context.Context) (*models.TwitchSecret, error) {
	query := `SELECT secret, edited_at, expires_at FROM twitchsecrettable WHERE id = 1`

	var secret models.TwitchSecret
	err := s.pool.QueryRow(ctx, query).Scan(&secret.Token, &secret.EditedAt, &secret.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch twitch secret: %v", err)
	}
	return &secret, nil
}

func (s *Store) SetTwitchSecret(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO twitchsecrettable (id, secret, edited_at, expires_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET secret = $1, edited_at = $2, expires_at = $3`

	if _, err := s.pool.Exec(ctx, query, token, time.Now().UTC(), expiresAt); err != nil {
		return fmt.Errorf("failed to store twitch secret: %v", err)
	}
	return nil
}
