package bot

import (
	"context"

	"logician/pkg/roles"

	"github.com/bwmarrin/discordgo"
)

// DiscordDirectory serves roles.Directory from the Discord REST API.
type DiscordDirectory struct {
	session Session
}

func NewDiscordDirectory(s Session) *DiscordDirectory {
	return &DiscordDirectory{session: s}
}

func (d *DiscordDirectory) ListRoles(ctx context.Context, guildID string) ([]roles.Role, error) {
	guildRoles, err := d.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]roles.Role, 0, len(guildRoles))
	for _, r := range guildRoles {
		out = append(out, toRole(r))
	}
	return out, nil
}

func (d *DiscordDirectory) ListMemberRoleIDs(ctx context.Context, guildID, memberID string) ([]string, error) {
	member, err := d.session.GuildMember(guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (d *DiscordDirectory) CreateRole(ctx context.Context, guildID, name string, color int) (roles.Role, error) {
	role, err := d.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return roles.Role{}, err
	}
	return toRole(role), nil
}

func (d *DiscordDirectory) SetRolePosition(ctx context.Context, guildID, roleID string, position int) error {
	_, err := d.session.GuildRoleReorder(guildID, []*discordgo.Role{{ID: roleID, Position: position}}, discordgo.WithContext(ctx))
	return err
}

func (d *DiscordDirectory) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	return d.session.GuildMemberRoleAdd(guildID, memberID, roleID, discordgo.WithContext(ctx))
}

func (d *DiscordDirectory) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	return d.session.GuildMemberRoleRemove(guildID, memberID, roleID, discordgo.WithContext(ctx))
}

func toRole(r *discordgo.Role) roles.Role {
	return roles.Role{
		ID:       r.ID,
		Name:     r.Name,
		Color:    r.Color,
		Position: r.Position,
	}
}
