package roles

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memoryDirectory is an in-process Directory used by the tests.
type memoryDirectory struct {
	mu      sync.Mutex
	nextID  int
	roles   map[string][]Role              // guild -> roles
	members map[string]map[string]struct{} // guild/member -> role ids
	calls   map[string]int

	createdAt  time.Time
	positionAt time.Time

	failRemove map[string]error // role id -> error
	failCreate error
	failAdd    error
	failList   error
	failPos    error
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		roles:      make(map[string][]Role),
		members:    make(map[string]map[string]struct{}),
		calls:      make(map[string]int),
		failRemove: make(map[string]error),
	}
}

func (d *memoryDirectory) seedRole(guildID, name string) Role {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newRoleLocked(guildID, name, 0)
}

func (d *memoryDirectory) grant(guildID, memberID string, role Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.memberLocked(guildID, memberID)[role.ID] = struct{}{}
}

func (d *memoryDirectory) newRoleLocked(guildID, name string, color int) Role {
	d.nextID++
	role := Role{ID: fmt.Sprintf("role-%d", d.nextID), Name: name, Color: color, Position: 1}
	d.roles[guildID] = append(d.roles[guildID], role)
	return role
}

func (d *memoryDirectory) memberLocked(guildID, memberID string) map[string]struct{} {
	key := guildID + "/" + memberID
	m, ok := d.members[key]
	if !ok {
		m = make(map[string]struct{})
		d.members[key] = m
	}
	return m
}

// memberRoleNames returns the names of the roles the member holds in category.
func (d *memoryDirectory) memberRoleNames(guildID, memberID string, category Category) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	held := d.memberLocked(guildID, memberID)
	var names []string
	for _, role := range d.roles[guildID] {
		if _, ok := held[role.ID]; ok && category.Matches(role.Name) {
			names = append(names, role.Name)
		}
	}
	return names
}

func (d *memoryDirectory) rolesNamed(guildID, name string) []Role {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Role
	for _, role := range d.roles[guildID] {
		if role.Name == name {
			out = append(out, role)
		}
	}
	return out
}

func (d *memoryDirectory) callCount(verb string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[verb]
}

func (d *memoryDirectory) totalCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.calls {
		total += n
	}
	return total
}

func (d *memoryDirectory) ListRoles(ctx context.Context, guildID string) ([]Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["list"]++
	if d.failList != nil {
		return nil, d.failList
	}
	return append([]Role(nil), d.roles[guildID]...), nil
}

func (d *memoryDirectory) ListMemberRoleIDs(ctx context.Context, guildID, memberID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["member"]++
	var ids []string
	for id := range d.memberLocked(guildID, memberID) {
		ids = append(ids, id)
	}
	return ids, nil
}

func (d *memoryDirectory) CreateRole(ctx context.Context, guildID, name string, color int) (Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["create"]++
	if d.failCreate != nil {
		return Role{}, d.failCreate
	}
	d.createdAt = time.Now()
	return d.newRoleLocked(guildID, name, color), nil
}

func (d *memoryDirectory) SetRolePosition(ctx context.Context, guildID, roleID string, position int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["position"]++
	if d.failPos != nil {
		return d.failPos
	}
	d.positionAt = time.Now()
	for i, role := range d.roles[guildID] {
		if role.ID == roleID {
			d.roles[guildID][i].Position = position
			return nil
		}
	}
	return fmt.Errorf("unknown role %s", roleID)
}

func (d *memoryDirectory) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["add"]++
	if d.failAdd != nil {
		return d.failAdd
	}
	d.memberLocked(guildID, memberID)[roleID] = struct{}{}
	return nil
}

func (d *memoryDirectory) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["remove"]++
	if err, ok := d.failRemove[roleID]; ok {
		return err
	}
	delete(d.memberLocked(guildID, memberID), roleID)
	return nil
}
