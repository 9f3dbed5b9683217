package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shiftboard/internal/identity"
	"shiftboard/internal/logs"
	"shiftboard/internal/models"
)

// ErrNotAuthenticated means there is no usable session; the caller is
// expected to send the user back through sign-in.
var ErrNotAuthenticated = errors.New("not authenticated")

// CurrentUser is the canonical, session-scoped view of the signed-in user.
// Never persisted, except as a local cache entry.
type CurrentUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	AccessRole AccessRole `json:"access_role"`
	Building   string     `json:"building"`
	Active     bool       `json:"active"`
}

// Store is the keyed profile-record access the resolver needs.
type Store interface {
	// FindByEmail returns at most one record (limit-1 semantics,
	// store-return-order tie-break) or nil when none exists.
	FindByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	Insert(ctx context.Context, acc *models.UserAccount) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// Resolver reconciles an identity-provider session with the stored
// profile record. Runs once per session bootstrap.
type Resolver struct {
	Identity identity.Provider
	Store    Store
	Cache    Cache // optional, best-effort
	Log      *logrus.Logger
}

func (r *Resolver) logger() *logrus.Logger {
	if r.Log != nil {
		return r.Log
	}
	if logs.Logger != nil {
		return logs.Logger
	}
	return logrus.StandardLogger()
}

// Resolve produces the CurrentUser for the active session, lazily creating
// or patching the stored record. Store failures are non-fatal: resolution
// degrades to metadata-only (read failure) or pre-patch (write failure)
// values and still returns a usable user.
func (r *Resolver) Resolve(ctx context.Context) (*CurrentUser, error) {
	id, err := r.Identity.CurrentIdentity(ctx)
	if err != nil || id == nil {
		if err != nil && !errors.Is(err, identity.ErrNoSession) {
			r.logger().Warnf("profile: identity fetch failed: %v", err)
		}
		return nil, ErrNotAuthenticated
	}

	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, ErrNotAuthenticated
	}

	sessionKey := identity.SessionKeyFromContext(ctx)
	if cu := r.fromCache(sessionKey); cu != nil {
		return cu, nil
	}

	hints := identity.ExtractHints(id.Metadata)

	rec, err := r.Store.FindByEmail(ctx, email)
	if err != nil {
		// degrade to metadata-only values; no insert attempt, we cannot
		// know whether a row already exists
		r.logger().Warnf("profile: lookup failed for %s: %v", email, err)
		return r.commit(ctx, sessionKey, metadataOnly(id.ID, email, hints)), nil
	}

	if rec == nil {
		rec = seedRecord(email, hints)
		if err := r.Store.Insert(ctx, rec); err != nil {
			r.logger().Warnf("profile: insert failed for %s: %v", email, err)
			// least-privilege fallback: the hinted role never got persisted
			cu := metadataOnly(id.ID, email, hints)
			cu.AccessRole = RoleWorker
			return r.commit(ctx, sessionKey, cu), nil
		}
	} else {
		// Fill name/building gaps from metadata. access_role is NEVER part
		// of this patch: role changes go through the admin path only.
		patch := map[string]any{}
		if emptyStr(rec.Name) && hints.Name != "" {
			patch["name"] = hints.Name
		}
		if emptyStr(rec.Building) && hints.Building != "" {
			patch["building"] = hints.Building
		}
		if len(patch) > 0 {
			if err := r.Store.UpdateFields(ctx, rec.ID, patch); err != nil {
				// keep the pre-patch record
				r.logger().Warnf("profile: patch failed for %s: %v", rec.ID, err)
			} else {
				if v, ok := patch["name"].(string); ok {
					rec.Name = &v
				}
				if v, ok := patch["building"].(string); ok {
					rec.Building = &v
				}
			}
		}
	}

	// Final precedence. For an existing record the metadata role hint is
	// never consulted: the stored role is authoritative.
	cu := &CurrentUser{
		ID:         rec.ID,
		Email:      email,
		Name:       firstNonEmpty(deref(rec.Name), hints.Name, identity.LocalPart(email)),
		AccessRole: SanitizeRole(deref(rec.AccessRole)),
		Building:   firstNonEmpty(deref(rec.Building), hints.Building),
		Active:     rec.Active == nil || *rec.Active, // fail-open
	}

	// A re-authentication may have superseded this resolution; drop the
	// stale result instead of committing it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.commit(ctx, sessionKey, cu), nil
}

func (r *Resolver) fromCache(sessionKey string) *CurrentUser {
	if r.Cache == nil || sessionKey == "" {
		return nil
	}
	raw, ok := r.Cache.Get(cacheKey(sessionKey))
	if !ok {
		return nil
	}
	var cu CurrentUser
	if err := json.Unmarshal([]byte(raw), &cu); err != nil || cu.Email == "" {
		// malformed cached data is a miss, not an error
		r.logger().Warnf("profile: malformed cache entry for session %s", sessionKey)
		return nil
	}
	return &cu
}

func (r *Resolver) commit(ctx context.Context, sessionKey string, cu *CurrentUser) *CurrentUser {
	if r.Cache != nil && sessionKey != "" && ctx.Err() == nil {
		if raw, err := json.Marshal(cu); err == nil {
			r.Cache.Set(cacheKey(sessionKey), string(raw))
		}
	}
	return cu
}

func cacheKey(sessionKey string) string { return "profile:" + sessionKey }

func seedRecord(email string, hints identity.Hints) *models.UserAccount {
	acc := &models.UserAccount{
		ID:     uuid.NewString(),
		Email:  email,
		Active: ptr(true),
	}
	role := string(SanitizeRole(hints.Role))
	acc.AccessRole = &role
	if hints.Name != "" {
		acc.Name = &hints.Name
	}
	if hints.Building != "" {
		acc.Building = &hints.Building
	}
	acc.CreatedAt = time.Now().UTC()
	acc.UpdatedAt = acc.CreatedAt
	return acc
}

func metadataOnly(userID, email string, hints identity.Hints) *CurrentUser {
	return &CurrentUser{
		ID:         userID,
		Email:      email,
		Name:       firstNonEmpty(hints.Name, identity.LocalPart(email)),
		AccessRole: SanitizeRole(hints.Role),
		Building:   hints.Building,
		Active:     true,
	}
}

func ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyStr(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
