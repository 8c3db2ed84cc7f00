package configcog

import (
	"strings"

	"github.com/umbra/akane/internal/models"
)

type permissionSet struct {
	allow map[string]bool
	deny  map[string]bool
}

func newPermissionSet() *permissionSet {
	return &permissionSet{allow: make(map[string]bool), deny: make(map[string]bool)}
}

// resolvedPermissions holds a guild's enable/disable rules, split into the
// guild-wide layer and one layer per channel.
type resolvedPermissions struct {
	guild    *permissionSet
	channels map[int64]*permissionSet
}

func newResolvedPermissions(records []models.CommandConfig) *resolvedPermissions {
	r := &resolvedPermissions{
		guild:    newPermissionSet(),
		channels: make(map[int64]*permissionSet),
	}
	for _, rec := range records {
		set := r.guild
		if rec.ChannelID != nil {
			set = r.channels[*rec.ChannelID]
			if set == nil {
				set = newPermissionSet()
				r.channels[*rec.ChannelID] = set
			}
		}
		if rec.Whitelist {
			set.allow[rec.Name] = true
		} else {
			set.deny[rec.Name] = true
		}
	}
	return r
}

// splitNames expands a qualified command name into the rule names that can
// match it, most generic first: "all", "todo", "todo list".
func splitNames(qualified string) []string {
	words := strings.Split(qualified, " ")
	out := make([]string, 0, len(words)+1)
	out = append(out, "all")
	for i := range words {
		out = append(out, strings.Join(words[:i+1], " "))
	}
	return out
}

// IsBlocked resolves whether a command may run in a channel. Guild rules
// apply first, then channel rules; within each layer denies apply before
// allows, and more specific names override broader ones. A nil result means
// no rule matched.
func (r *resolvedPermissions) IsBlocked(qualified string, channelID int64) *bool {
	// the management commands themselves can never be locked out
	if strings.HasPrefix(qualified, "config") || strings.HasPrefix(qualified, "prefix") {
		return nil
	}

	var blocked *bool
	yes, no := true, false

	for _, name := range splitNames(qualified) {
		if r.guild.deny[name] {
			blocked = &yes
		}
		if r.guild.allow[name] {
			blocked = &no
		}
	}

	if channel := r.channels[channelID]; channel != nil {
		for _, name := range splitNames(qualified) {
			if channel.deny[name] {
				blocked = &yes
			}
			if channel.allow[name] {
				blocked = &no
			}
		}
	}

	return blocked
}
