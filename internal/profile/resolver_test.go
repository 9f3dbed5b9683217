package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftboard/internal/identity"
	"shiftboard/internal/models"
)

type fakeProvider struct {
	id  *identity.Identity
	err error
}

func (f fakeProvider) CurrentIdentity(context.Context) (*identity.Identity, error) {
	return f.id, f.err
}

type fakeStore struct {
	rec       *models.UserAccount
	findErr   error
	insertErr error
	updateErr error

	findCalls int
	inserted  []*models.UserAccount
	updates   []map[string]any
	updatedID string
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*models.UserAccount, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.rec, nil
}

func (f *fakeStore) Insert(_ context.Context, acc *models.UserAccount) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, acc)
	return nil
}

func (f *fakeStore) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updates = append(f.updates, fields)
	return nil
}

func strp(s string) *string { return &s }

func ident(email string, md map[string]any) *identity.Identity {
	return &identity.Identity{ID: "idp-1", Email: email, Metadata: md}
}

func TestResolve_NoIdentity(t *testing.T) {
	r := &Resolver{Identity: fakeProvider{err: identity.ErrNoSession}, Store: &fakeStore{}}
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	r = &Resolver{Identity: fakeProvider{id: nil}, Store: &fakeStore{}}
	_, err = r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

// A stored role is never overwritten by a metadata role hint.
func TestResolve_ExistingRoleIsAuthoritative(t *testing.T) {
	st := &fakeStore{rec: &models.UserAccount{
		ID:         "rec-1",
		Email:      "jane@wh.example",
		Name:       strp("Jane"),
		AccessRole: strp("HR"),
		Building:   strp("DC1"),
	}}
	r := &Resolver{
		Identity: fakeProvider{id: ident("jane@wh.example", map[string]any{"role": "Super Admin"})},
		Store:    st,
	}

	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RoleHR, cu.AccessRole)
	assert.Empty(t, st.inserted)
	for _, patch := range st.updates {
		_, ok := patch["access_role"]
		assert.False(t, ok, "access_role must never appear in a resolution patch")
	}
}

// A fresh identity produces exactly one insert seeded from metadata.
func TestResolve_FreshIdentityInserts(t *testing.T) {
	st := &fakeStore{}
	r := &Resolver{
		Identity: fakeProvider{id: ident("New.Guy@WH.example", map[string]any{
			"role":     "supervisor",
			"building": "DC3",
			"name":     "New Guy",
		})},
		Store: st,
	}

	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, st.inserted, 1)

	ins := st.inserted[0]
	assert.Equal(t, "new.guy@wh.example", ins.Email, "email normalized to lowercase")
	require.NotNil(t, ins.AccessRole)
	assert.Equal(t, "Supervisor", *ins.AccessRole)
	require.NotNil(t, ins.Active)
	assert.True(t, *ins.Active)

	assert.Equal(t, RoleSupervisor, cu.AccessRole)
	assert.Equal(t, "DC3", cu.Building)
	assert.Equal(t, "New Guy", cu.Name)
	assert.True(t, cu.Active)
}

func TestResolve_FreshIdentityUnknownRoleDefaultsWorker(t *testing.T) {
	st := &fakeStore{}
	r := &Resolver{
		Identity: fakeProvider{id: ident("a@b.example", map[string]any{"role": "CEO"})},
		Store:    st,
	}
	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, st.inserted, 1)
	assert.Equal(t, "Worker", *st.inserted[0].AccessRole)
	assert.Equal(t, RoleWorker, cu.AccessRole)
}

// Only empty stored fields are patched, and only when metadata has a value.
func TestResolve_PatchesNameGapOnly(t *testing.T) {
	st := &fakeStore{rec: &models.UserAccount{
		ID:         "rec-2",
		Email:      "gap@wh.example",
		AccessRole: strp("Lead"),
		Building:   strp("DC1"), // already set, must stay untouched
	}}
	r := &Resolver{
		Identity: fakeProvider{id: ident("gap@wh.example", map[string]any{
			"name":     "Gap Filler",
			"building": "DC9",
		})},
		Store: st,
	}

	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, st.updates, 1)
	assert.Equal(t, map[string]any{"name": "Gap Filler"}, st.updates[0])
	assert.Equal(t, "rec-2", st.updatedID)

	assert.Equal(t, "Gap Filler", cu.Name)
	assert.Equal(t, "DC1", cu.Building, "stored building wins over the hint")
}

func TestResolve_NoPatchWhenNothingMissing(t *testing.T) {
	st := &fakeStore{rec: &models.UserAccount{
		ID:         "rec-3",
		Email:      "full@wh.example",
		Name:       strp("Full"),
		AccessRole: strp("Worker"),
		Building:   strp("DC1"),
	}}
	r := &Resolver{
		Identity: fakeProvider{id: ident("full@wh.example", map[string]any{"name": "Other", "building": "DC2"})},
		Store:    st,
	}
	_, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.updates)
}

// Patch failure keeps the pre-patch values; resolution still completes.
func TestResolve_PatchFailureIsNonFatal(t *testing.T) {
	st := &fakeStore{
		rec: &models.UserAccount{
			ID:         "rec-4",
			Email:      "pp@wh.example",
			AccessRole: strp("Worker"),
		},
		updateErr: errors.New("store down"),
	}
	r := &Resolver{
		Identity: fakeProvider{id: ident("pp@wh.example", map[string]any{"name": "Pat"})},
		Store:    st,
	}
	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	// final name still falls back to the metadata hint
	assert.Equal(t, "Pat", cu.Name)
	assert.Equal(t, RoleWorker, cu.AccessRole)
}

// Insert failure degrades to metadata-only defaults with role Worker.
func TestResolve_InsertFailureFallsBackToWorker(t *testing.T) {
	st := &fakeStore{insertErr: errors.New("store down")}
	r := &Resolver{
		Identity: fakeProvider{id: ident("x@wh.example", map[string]any{
			"role":     "Admin",
			"building": "DC2",
		})},
		Store: st,
	}
	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RoleWorker, cu.AccessRole, "unpersisted role hint must not grant access")
	assert.Equal(t, "DC2", cu.Building)
	assert.True(t, cu.Active)
}

// Lookup failure degrades to metadata-only values and never inserts.
func TestResolve_ReadFailureIsMetadataOnly(t *testing.T) {
	st := &fakeStore{findErr: errors.New("store down")}
	r := &Resolver{
		Identity: fakeProvider{id: ident("ro@wh.example", map[string]any{"role": "Lead"})},
		Store:    st,
	}
	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.inserted, "must not insert when existence is unknown")
	assert.Equal(t, RoleLead, cu.AccessRole)
	assert.Equal(t, "ro", cu.Name, "email local-part is the last-resort name")
	assert.True(t, cu.Active)
}

func TestResolve_ActiveFailOpen(t *testing.T) {
	st := &fakeStore{rec: &models.UserAccount{
		ID:         "rec-5",
		Email:      "na@wh.example",
		AccessRole: strp("Worker"),
		Active:     nil, // legacy row without the flag
	}}
	r := &Resolver{Identity: fakeProvider{id: ident("na@wh.example", nil)}, Store: st}
	cu, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, cu.Active)

	inactive := false
	st.rec.Active = &inactive
	cu, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.False(t, cu.Active)
}

func TestResolve_CancelledContextDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := &fakeStore{rec: &models.UserAccount{ID: "rec-6", Email: "c@wh.example", AccessRole: strp("Worker")}}
	r := &Resolver{Identity: fakeProvider{id: ident("c@wh.example", nil)}, Store: st}

	_, err := r.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_CacheHitSkipsStore(t *testing.T) {
	cache := NewMemCache(0)
	cached, _ := json.Marshal(CurrentUser{
		ID: "rec-7", Email: "hit@wh.example", Name: "Hit",
		AccessRole: RoleLead, Active: true,
	})
	cache.Set("profile:sess-1", string(cached))

	st := &fakeStore{}
	r := &Resolver{
		Identity: fakeProvider{id: ident("hit@wh.example", nil)},
		Store:    st,
		Cache:    cache,
	}
	ctx := identity.WithIdentity(context.Background(), ident("hit@wh.example", nil), "sess-1")

	cu, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleLead, cu.AccessRole)
	assert.Zero(t, st.findCalls, "cached session must not hit the store")
}

func TestResolve_MalformedCacheIsMiss(t *testing.T) {
	cache := NewMemCache(0)
	cache.Set("profile:sess-2", "{not json")

	st := &fakeStore{rec: &models.UserAccount{ID: "rec-8", Email: "mc@wh.example", AccessRole: strp("HQ")}}
	r := &Resolver{
		Identity: fakeProvider{id: ident("mc@wh.example", nil)},
		Store:    st,
		Cache:    cache,
	}
	ctx := identity.WithIdentity(context.Background(), ident("mc@wh.example", nil), "sess-2")

	cu, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleHQ, cu.AccessRole)
	assert.Equal(t, 1, st.findCalls)

	// the good result replaced the broken cache entry
	raw, ok := cache.Get("profile:sess-2")
	require.True(t, ok)
	var cu2 CurrentUser
	require.NoError(t, json.Unmarshal([]byte(raw), &cu2))
	assert.Equal(t, RoleHQ, cu2.AccessRole)
}
