package roles

import "context"

// Role is a guild role as seen through the Directory.
type Role struct {
	ID       string
	Name     string
	Color    int
	Position int
}

// Directory is the remote, eventually-consistent store of guild roles and
// member role assignments. Every method is a network round trip.
type Directory interface {
	ListRoles(ctx context.Context, guildID string) ([]Role, error)
	ListMemberRoleIDs(ctx context.Context, guildID, memberID string) ([]string, error)
	CreateRole(ctx context.Context, guildID, name string, color int) (Role, error)
	SetRolePosition(ctx context.Context, guildID, roleID string, position int) error
	AddRole(ctx context.Context, guildID, memberID, roleID string) error
	RemoveRole(ctx context.Context, guildID, memberID, roleID string) error
}
