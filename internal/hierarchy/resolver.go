// Package hierarchy answers reporting-line questions over the member
// supervisor graph. The stored graph is not trusted to be acyclic: every walk
// keeps a visited set and stops on the first repeat.
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

// MemberStore is the slice of storage the resolver reads from.
type MemberStore interface {
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	ListMembersBySupervisor(ctx context.Context, supervisorID int64) ([]models.Member, error)
}

type Resolver struct {
	store MemberStore
}

func NewResolver(store MemberStore) *Resolver {
	return &Resolver{store: store}
}

var (
	errMemberNotFound     = apperr.NotFound("Member not found")
	errSupervisorNotFound = apperr.NotFound("Supervisor not found")
)

// lookup returns (nil, nil) when id does not resolve.
func (r *Resolver) lookup(ctx context.Context, id int64) (*models.Member, error) {
	m, err := r.store.GetMember(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load member %d: %w", id, err)
	}
	return m, nil
}

func (r *Resolver) root(ctx context.Context, id int64) (*models.Member, error) {
	m, err := r.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errMemberNotFound
	}
	return m, nil
}

func (r *Resolver) GetSupervisor(ctx context.Context, id int64) (*models.Member, error) {
	m, err := r.root(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.SupervisorID == nil {
		return nil, errSupervisorNotFound
	}
	sup, err := r.lookup(ctx, *m.SupervisorID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, errSupervisorNotFound
	}
	return sup, nil
}

// GetSubordinates lists direct reports. A leaf yields an empty, non-nil slice.
func (r *Resolver) GetSubordinates(ctx context.Context, id int64) ([]models.Member, error) {
	if _, err := r.root(ctx, id); err != nil {
		return nil, err
	}
	return r.children(ctx, id)
}

func (r *Resolver) children(ctx context.Context, id int64) ([]models.Member, error) {
	subs, err := r.store.ListMembersBySupervisor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list subordinates of %d: %w", id, err)
	}
	if subs == nil {
		subs = []models.Member{}
	}
	return subs, nil
}

// GetTopManager follows supervisor links upward. The walk ends at a member
// with no supervisor, a supervisor that no longer exists, or a supervisor
// already visited; that member is returned.
func (r *Resolver) GetTopManager(ctx context.Context, id int64) (*models.Member, error) {
	current, err := r.root(ctx, id)
	if err != nil {
		return nil, err
	}

	visited := make(map[int64]struct{})
	for {
		if current.SupervisorID == nil {
			return current, nil
		}
		next := *current.SupervisorID
		if _, seen := visited[next]; seen {
			return current, nil
		}
		visited[current.ID] = struct{}{}

		sup, err := r.lookup(ctx, next)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			return current, nil
		}
		current = sup
	}
}

// GetOrgSubtree returns id and everyone below it in pre-order, each member at
// most once. Siblings keep the store's order.
func (r *Resolver) GetOrgSubtree(ctx context.Context, id int64) ([]models.Member, error) {
	root, err := r.root(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		out     []models.Member
		visited = map[int64]struct{}{}
		stack   = []models.Member{*root}
	)
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[m.ID]; seen {
			continue
		}
		visited[m.ID] = struct{}{}
		out = append(out, m)

		subs, err := r.children(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		// Reverse push so the first child is expanded next.
		for i := len(subs) - 1; i >= 0; i-- {
			if _, seen := visited[subs[i].ID]; !seen {
				stack = append(stack, subs[i])
			}
		}
	}
	return out, nil
}

// WouldCreateCycle reports whether making supervisorID the supervisor of
// memberID closes a loop, i.e. memberID is supervisorID or one of its
// ancestors. The upward walk stops on any pre-existing cycle.
func (r *Resolver) WouldCreateCycle(ctx context.Context, memberID, supervisorID int64) (bool, error) {
	visited := make(map[int64]struct{})
	next := supervisorID
	for {
		if next == memberID {
			return true, nil
		}
		if _, seen := visited[next]; seen {
			return false, nil
		}
		visited[next] = struct{}{}

		m, err := r.lookup(ctx, next)
		if err != nil {
			return false, err
		}
		if m == nil || m.SupervisorID == nil {
			return false, nil
		}
		next = *m.SupervisorID
	}
}
