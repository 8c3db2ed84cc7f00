package store

// The table definitions mirror what the cogs expect. Everything is guarded by
// IF NOT EXISTS so `db init` can be re-run safely.
var schema = []struct {
	name  string
	table string
	ddl   string
}{
	{
		name:  "todos table",
		table: "todos",
		ddl: `
		CREATE TABLE IF NOT EXISTS todos (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			added_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			jump_url TEXT
		);
		CREATE INDEX IF NOT EXISTS todos_owner_id_idx ON todos (owner_id);`,
	},
	{
		name:  "plonks table",
		table: "plonks",
		ddl: `
		CREATE TABLE IF NOT EXISTS plonks (
			id BIGSERIAL PRIMARY KEY,
			guild_id BIGINT NOT NULL,
			entity_id BIGINT UNIQUE
		);
		CREATE INDEX IF NOT EXISTS plonks_guild_id_idx ON plonks (guild_id);
		CREATE INDEX IF NOT EXISTS plonks_entity_id_idx ON plonks (entity_id);`,
	},
	{
		name:  "command_config table",
		table: "command_config",
		ddl: `
		CREATE TABLE IF NOT EXISTS command_config (
			id BIGSERIAL PRIMARY KEY,
			guild_id BIGINT NOT NULL,
			channel_id BIGINT,
			name TEXT NOT NULL,
			whitelist BOOLEAN NOT NULL
		);
		CREATE INDEX IF NOT EXISTS command_config_guild_id_idx ON command_config (guild_id);
		CREATE UNIQUE INDEX IF NOT EXISTS command_config_uniq_idx ON command_config (channel_id, name, whitelist);`,
	},
	{
		name:  "tz_store table",
		table: "tz_store",
		ddl: `
		CREATE TABLE IF NOT EXISTS tz_store (
			user_id BIGINT PRIMARY KEY,
			guild_ids BIGINT[] NOT NULL DEFAULT '{}',
			tz TEXT NOT NULL
		);`,
	},
	{
		name:  "welcome_config table",
		table: "welcome_config",
		ddl: `
		CREATE TABLE IF NOT EXISTS welcome_config (
			guild_id BIGINT PRIMARY KEY,
			welcome_channel BIGINT NOT NULL,
			welcome_message TEXT NOT NULL
		);`,
	},
	{
		name:  "twitchtable table",
		table: "twitchtable",
		ddl: `
		CREATE TABLE IF NOT EXISTS twitchtable (
			id BIGSERIAL PRIMARY KEY,
			guild_id BIGINT NOT NULL,
			channel_id BIGINT NOT NULL,
			streamer_name TEXT NOT NULL,
			streamer_last_game TEXT,
			streamer_last_datetime TIMESTAMP WITH TIME ZONE
		);`,
	},
	{
		name:  "twitchcliptable table",
		table: "twitchcliptable",
		ddl: `
		CREATE TABLE IF NOT EXISTS twitchcliptable (
			id BIGSERIAL PRIMARY KEY,
			guild_id BIGINT NOT NULL,
			channel_id BIGINT NOT NULL,
			broadcaster_id TEXT NOT NULL,
			last_25_clips TEXT[] NOT NULL DEFAULT '{}'
		);`,
	},
	{
		name:  "twitchsecrettable table",
		table: "twitchsecrettable",
		ddl: `
		CREATE TABLE IF NOT EXISTS twitchsecrettable (
			id BIGINT PRIMARY KEY,
			secret TEXT NOT NULL,
			edited_at TIMESTAMP WITH TIME ZONE NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);`,
	},
	{
		name:  "reaction_roles table",
		table: "reaction_roles",
		ddl: `
		CREATE TABLE IF NOT EXISTS reaction_roles (
			guild_id BIGINT PRIMARY KEY,
			data JSONB NOT NULL
		);`,
	},
	{
		name:  "timezones table",
		table: "timezones",
		ddl: `
		CREATE TABLE IF NOT EXISTS timezones (
			name TEXT PRIMARY KEY
		);
		CREATE INDEX IF NOT EXISTS timezones_name_trgm_idx ON timezones USING gin (name gin_trgm_ops);`,
	},
}
