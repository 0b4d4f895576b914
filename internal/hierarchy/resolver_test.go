package hierarchy

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

type fakeStore struct {
	members map[int64]*models.Member
	calls   int
	listErr error
}

func newFakeStore(edges map[int64]*int64) *fakeStore {
	s := &fakeStore{members: make(map[int64]*models.Member)}
	for id, sup := range edges {
		s.members[id] = &models.Member{ID: id, FirstName: "m", SupervisorID: sup}
	}
	return s
}

func sup(id int64) *int64 { return &id }

func (s *fakeStore) GetMember(_ context.Context, id int64) (*models.Member, error) {
	s.calls++
	m, ok := s.members[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) ListMembersBySupervisor(_ context.Context, id int64) ([]models.Member, error) {
	s.calls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Member
	for _, m := range s.members {
		if m.SupervisorID != nil && *m.SupervisorID == id {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func ids(ms []models.Member) []int64 {
	out := make([]int64, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

// 1 <- 2 <- 3
func chain() *fakeStore {
	return newFakeStore(map[int64]*int64{1: nil, 2: sup(1), 3: sup(2)})
}

func TestChainScenario(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(chain())

	top, err := r.GetTopManager(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), top.ID)

	tree, err := r.GetOrgSubtree(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(tree))

	subs, err := r.GetSubordinates(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(subs))

	boss, err := r.GetSupervisor(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), boss.ID)
}

func TestTopManagerTerminatesOnCycle(t *testing.T) {
	store := chain()
	store.members[1].SupervisorID = sup(3)
	r := NewResolver(store)

	top, err := r.GetTopManager(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, []int64{1, 2, 3}, top.ID)
	assert.LessOrEqual(t, store.calls, 4)
}

func TestTopManagerTwoNodeCycle(t *testing.T) {
	r := NewResolver(newFakeStore(map[int64]*int64{10: sup(20), 20: sup(10)}))

	top, err := r.GetTopManager(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, []int64{10, 20}, top.ID)
}

func TestTopManagerSelfLoop(t *testing.T) {
	r := NewResolver(newFakeStore(map[int64]*int64{5: sup(5)}))

	top, err := r.GetTopManager(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), top.ID)
}

func TestTopManagerDanglingSupervisor(t *testing.T) {
	r := NewResolver(newFakeStore(map[int64]*int64{2: sup(99), 3: sup(2)}))

	top, err := r.GetTopManager(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), top.ID)
}

func TestSubtreeDeduplicatesCycle(t *testing.T) {
	store := chain()
	store.members[1].SupervisorID = sup(3)
	r := NewResolver(store)

	tree, err := r.GetOrgSubtree(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(tree))
}

func TestSubtreeDiamondListsOnce(t *testing.T) {
	// 4 is listed under both 2 and 3; the fake returns it for each parent.
	store := newFakeStore(map[int64]*int64{1: nil, 2: sup(1), 3: sup(1)})
	diamond := &diamondStore{fakeStore: store, extra: map[int64][]models.Member{
		2: {{ID: 4}},
		3: {{ID: 4}},
	}}
	r := NewResolver(diamond)

	tree, err := r.GetOrgSubtree(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4, 3}, ids(tree))
}

type diamondStore struct {
	*fakeStore
	extra map[int64][]models.Member
}

func (d *diamondStore) ListMembersBySupervisor(ctx context.Context, id int64) ([]models.Member, error) {
	out, err := d.fakeStore.ListMembersBySupervisor(ctx, id)
	if err != nil {
		return nil, err
	}
	return append(out, d.extra[id]...), nil
}

func TestSubordinatesOfLeafIsEmpty(t *testing.T) {
	r := NewResolver(chain())

	subs, err := r.GetSubordinates(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestMissingRootIsNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(chain())

	_, err := r.GetSupervisor(ctx, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = r.GetSubordinates(ctx, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = r.GetTopManager(ctx, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = r.GetOrgSubtree(ctx, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSupervisorNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(newFakeStore(map[int64]*int64{1: nil, 2: sup(77)}))

	_, err := r.GetSupervisor(ctx, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = r.GetSupervisor(ctx, 2)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStoreFailureIsInternal(t *testing.T) {
	store := chain()
	store.listErr = errors.New("connection reset")
	r := NewResolver(store)

	_, err := r.GetOrgSubtree(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWouldCreateCycle(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(chain())

	tests := []struct {
		name       string
		member     int64
		supervisor int64
		want       bool
	}{
		{"self", 2, 2, true},
		{"under own descendant", 1, 3, true},
		{"under direct report", 2, 3, true},
		{"move leaf up", 3, 1, false},
		{"unknown supervisor", 1, 99, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.WouldCreateCycle(ctx, tt.member, tt.supervisor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWouldCreateCycleStopsOnExistingLoop(t *testing.T) {
	r := NewResolver(newFakeStore(map[int64]*int64{10: sup(20), 20: sup(10), 1: nil}))

	got, err := r.WouldCreateCycle(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, got)
}
