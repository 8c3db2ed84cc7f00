package models

import "time"

type Todo struct {
	ID      int64
	OwnerID int64
	Content string
	AddedAt time.Time
	JumpURL string
}

type Plonk struct {
	ID       int64
	GuildID  int64
	EntityID int64
}

// CommandConfig is one enable/disable rule for a command. A nil ChannelID
// means the rule applies to the whole guild.
type CommandConfig struct {
	ID        int64
	GuildID   int64
	ChannelID *int64
	Name      string
	Whitelist bool
}

// TimezoneEntry is a user's stored timezone together with the guilds it is
// public in.
type TimezoneEntry struct {
	UserID   int64
	GuildIDs []int64
	Zone     string
}

type WelcomeConfig struct {
	GuildID   int64
	ChannelID int64
	Message   string
}

type TwitchAlert struct {
	ID           int64
	GuildID      int64
	ChannelID    int64
	StreamerName string
	LastGame     string
	LastLiveAt   time.Time
}

type TwitchClipFollow struct {
	ID            int64
	GuildID       int64
	ChannelID     int64
	BroadcasterID string
	LastClips     []string
}

// TwitchSecret is the cached app OAuth token. There is only ever one row.
type TwitchSecret struct {
	Token     string
	EditedAt  time.Time
	ExpiresAt time.Time
}

// ReactionRoleConfig is stored as a JSONB blob keyed by guild.
type ReactionRoleConfig struct {
	RoleID          string   `json:"role_id"`
	Emoji           string   `json:"emoji"`
	ApprovalChannel string   `json:"approval_channel,omitempty"`
	Messages        []string `json:"messages,omitempty"`
}
