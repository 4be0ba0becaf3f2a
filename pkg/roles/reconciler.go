// Package roles keeps a member's exclusive category roles (personality type,
// display color) in line with what the member last asked for.
//
// The remote directory is the only source of truth. Nothing about a member is
// cached between requests and reconciliations share no mutable state beyond
// the in-flight creation group.
package roles

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Status int

const (
	StatusAssigned Status = iota + 1
	StatusRemoved
)

// Request asks for Member's role in Category to become Value. Value must
// already be resolved (see Resolve).
type Request struct {
	GuildID  string
	MemberID string
	Category Category
	Value    string
}

type Outcome struct {
	Status Status
	// Role is the assigned role when Status is StatusAssigned.
	Role    Role
	Created bool
	Removed []Role
}

type Reconciler struct {
	dir       Directory
	positions map[string]int
	spacing   time.Duration

	// creates collapses concurrent creations of the same color role.
	creates singleflight.Group
}

// NewReconciler builds a Reconciler over dir. positions maps a guild ID to
// the stacking position given to newly created color roles; spacing is the
// minimum pause around repositioning a new role.
func NewReconciler(dir Directory, positions map[string]int, spacing time.Duration) *Reconciler {
	p := make(map[string]int, len(positions))
	for guildID, pos := range positions {
		p[guildID] = pos
	}
	return &Reconciler{
		dir:       dir,
		positions: p,
		spacing:   spacing,
	}
}

// Reconcile brings the member's roles in req.Category to exactly the role
// named req.Value, creating a color role if the guild has none yet.
//
// Cancellation of ctx is observed between steps only. Once stale roles start
// being removed, removal and assignment always run to completion.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (Outcome, error) {
	if err := validateValue(req.Category, req.Value); err != nil {
		return Outcome{}, err
	}
	reqID := newRequestID()

	if req.Category == CategoryType && req.Value == NoneLabel {
		removed, err := r.clear(ctx, reqID, req.GuildID, req.MemberID, CategoryType)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: StatusRemoved, Removed: removed}, nil
	}

	guildRoles, stale, err := r.scan(ctx, req.GuildID, req.MemberID, req.Category)
	if err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	target, created, err := r.target(ctx, reqID, req, guildRoles)
	if err != nil {
		return Outcome{Created: created}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{Created: created}, err
	}

	ctx = context.WithoutCancel(ctx)
	removed := r.removeAll(ctx, reqID, req.GuildID, req.MemberID, stale)

	if err := r.dir.AddRole(ctx, req.GuildID, req.MemberID, target.ID); err != nil {
		return Outcome{Created: created, Removed: removed}, &DirectoryError{Step: StepAddRole, Err: err}
	}
	log.Printf("[roles %s] assigned %s role %s (%s) to member %s in guild %s",
		reqID, req.Category, target.Name, target.ID, req.MemberID, req.GuildID)

	return Outcome{Status: StatusAssigned, Role: target, Created: created, Removed: removed}, nil
}

// Clear removes every role in category from the member without assigning a
// replacement. It returns the roles that were actually removed.
func (r *Reconciler) Clear(ctx context.Context, guildID, memberID string, category Category) ([]Role, error) {
	return r.clear(ctx, newRequestID(), guildID, memberID, category)
}

func (r *Reconciler) clear(ctx context.Context, reqID, guildID, memberID string, category Category) ([]Role, error) {
	_, stale, err := r.scan(ctx, guildID, memberID, category)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.removeAll(context.WithoutCancel(ctx), reqID, guildID, memberID, stale), nil
}

// scan returns the guild's roles and the subset the member holds in category.
func (r *Reconciler) scan(ctx context.Context, guildID, memberID string, category Category) ([]Role, []Role, error) {
	memberRoleIDs, err := r.dir.ListMemberRoleIDs(ctx, guildID, memberID)
	if err != nil {
		return nil, nil, &DirectoryError{Step: StepListMemberRoles, Err: err}
	}
	guildRoles, err := r.dir.ListRoles(ctx, guildID)
	if err != nil {
		return nil, nil, &DirectoryError{Step: StepListRoles, Err: err}
	}
	return guildRoles, heldInCategory(guildRoles, memberRoleIDs, category), nil
}

func (r *Reconciler) target(ctx context.Context, reqID string, req Request, guildRoles []Role) (Role, bool, error) {
	if role, ok := findByName(guildRoles, req.Value); ok {
		return role, false, nil
	}
	if req.Category != CategoryColor {
		return Role{}, false, fmt.Errorf("%w: %s", ErrRoleNotConfigured, req.Value)
	}

	// Creation and positioning run as one step and are not interrupted.
	createCtx := context.WithoutCancel(ctx)
	v, err, shared := r.creates.Do(req.GuildID+"/"+req.Value, func() (interface{}, error) {
		return r.createColorRole(createCtx, reqID, req.GuildID, req.Value)
	})
	c := v.(creation)
	if shared {
		log.Printf("[roles %s] joined in-flight creation of %s in guild %s", reqID, req.Value, req.GuildID)
	}
	return c.role, c.created, err
}

type creation struct {
	role    Role
	created bool
}

func (r *Reconciler) createColorRole(ctx context.Context, reqID, guildID, value string) (creation, error) {
	// A flight that finished after our scan may already have made it.
	guildRoles, err := r.dir.ListRoles(ctx, guildID)
	if err != nil {
		return creation{}, &DirectoryError{Step: StepListRoles, Err: err}
	}
	if role, ok := findByName(guildRoles, value); ok {
		return creation{role: role}, nil
	}

	color, err := strconv.ParseInt(value[1:], 16, 32)
	if err != nil {
		return creation{}, fmt.Errorf("%w: %q", ErrUnknownColor, value)
	}

	pacer := NewPacer(r.spacing)
	if err := pacer.Wait(ctx); err != nil {
		return creation{}, &DirectoryError{Step: StepPace, Err: err}
	}
	role, err := r.dir.CreateRole(ctx, guildID, value, int(color))
	if err != nil {
		return creation{}, &DirectoryError{Step: StepCreateRole, Err: err}
	}
	log.Printf("[roles %s] created color role %s (%s) in guild %s", reqID, role.Name, role.ID, guildID)

	position, ok := r.positions[guildID]
	if !ok {
		// The new role stays behind unpositioned; later requests reuse it.
		return creation{role: role, created: true}, fmt.Errorf("%w: guild %s", ErrPositionNotConfigured, guildID)
	}

	if err := pacer.Wait(ctx); err != nil {
		return creation{role: role, created: true}, &DirectoryError{Step: StepPace, Err: err}
	}
	if err := r.dir.SetRolePosition(ctx, guildID, role.ID, position); err != nil {
		return creation{role: role, created: true}, &DirectoryError{Step: StepSetPosition, Err: err}
	}
	role.Position = position
	if err := pacer.Wait(ctx); err != nil {
		return creation{role: role, created: true}, &DirectoryError{Step: StepPace, Err: err}
	}

	return creation{role: role, created: true}, nil
}

// removeAll removes each role independently. A failed removal is logged and
// skipped; a later reconciliation retries it.
func (r *Reconciler) removeAll(ctx context.Context, reqID, guildID, memberID string, stale []Role) []Role {
	removed := make([]Role, 0, len(stale))
	for _, role := range stale {
		if err := r.dir.RemoveRole(ctx, guildID, memberID, role.ID); err != nil {
			log.Printf("[roles %s] failed to remove role %s (%s) from member %s: %v",
				reqID, role.Name, role.ID, memberID, &DirectoryError{Step: StepRemoveRole, Err: err})
			continue
		}
		removed = append(removed, role)
	}
	return removed
}

func validateValue(category Category, value string) error {
	switch category {
	case CategoryType:
		if !IsTypeLabel(value) {
			return fmt.Errorf("%w: %q", ErrUnknownType, value)
		}
	case CategoryColor:
		if !IsHexColor(value) {
			return fmt.Errorf("%w: %q", ErrUnknownColor, value)
		}
	default:
		return fmt.Errorf("unsupported category %d", category)
	}
	return nil
}

func heldInCategory(guildRoles []Role, memberRoleIDs []string, category Category) []Role {
	held := make(map[string]struct{}, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		held[id] = struct{}{}
	}

	var matched []Role
	for _, role := range guildRoles {
		if _, ok := held[role.ID]; ok && category.Matches(role.Name) {
			matched = append(matched, role)
		}
	}
	return matched
}

func findByName(guildRoles []Role, name string) (Role, bool) {
	for _, role := range guildRoles {
		if role.Name == name {
			return role, true
		}
	}
	return Role{}, false
}

func newRequestID() string {
	return uuid.NewString()[:8]
}
