package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valter-silva-au/pomotask/pkg/models"
	"gopkg.in/yaml.v3"
)

// Store keys used for the identity record.
const (
	UserKey           = "user"
	legacyUsernameKey = "username"
	legacyAvatarKey   = "avatar"
)

// DefaultUsername is substituted for an empty name when the policy does not
// require one.
const DefaultUsername = "Guest"

// ErrEmptyUsername is returned by Submit when a username is required and the
// draft's name is blank.
var ErrEmptyUsername = errors.New("username cannot be empty")

// IdentityDraft is the onboarding form before submission.
type IdentityDraft struct {
	Username string
	Avatar   string
}

// SetUsername replaces the draft's username.
func (d *IdentityDraft) SetUsername(name string) {
	d.Username = name
}

// SetAvatar replaces the draft's avatar payload. The payload is not inspected.
func (d *IdentityDraft) SetAvatar(payload string) {
	d.Avatar = payload
}

// IdentityPolicy controls how Submit validates an empty username.
type IdentityPolicy struct {
	RequireUsername bool
	DefaultUsername string
}

// IdentityManager defines onboarding persistence operations.
type IdentityManager interface {
	Load(ctx context.Context) (models.Identity, bool, error)
	Submit(ctx context.Context, draft IdentityDraft) (models.Identity, error)
	Reset(ctx context.Context) error
}

type identityManager struct {
	store  KeyValueStore
	policy IdentityPolicy
	events EventLogger
}

// NewIdentityManager creates an IdentityManager persisting to store under the
// "user" key. events may be nil.
func NewIdentityManager(store KeyValueStore, policy IdentityPolicy, events EventLogger) IdentityManager {
	if policy.DefaultUsername == "" {
		policy.DefaultUsername = DefaultUsername
	}
	return &identityManager{store: store, policy: policy, events: events}
}

// Load reads the persisted identity. The composite "user" record is
// preferred; separate "username"/"avatar" keys written by older versions are
// read when it is absent.
func (m *identityManager) Load(ctx context.Context) (models.Identity, bool, error) {
	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("loading identity: %w", err)
	}
	if ok {
		var id models.Identity
		if err := yaml.Unmarshal([]byte(raw), &id); err != nil {
			return models.Identity{}, false, fmt.Errorf("loading identity: decoding record: %w", err)
		}
		return id, true, nil
	}

	name, nameOK, err := m.store.Get(ctx, legacyUsernameKey)
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("loading identity: %w", err)
	}
	if !nameOK {
		return models.Identity{}, false, nil
	}
	avatar, _, err := m.store.Get(ctx, legacyAvatarKey)
	if err != nil {
		return models.Identity{}, false, fmt.Errorf("loading identity: %w", err)
	}
	return models.Identity{Username: name, Avatar: avatar}, true, nil
}

// Submit validates the draft, persists it and returns the identity by value.
// Nothing is returned on a store failure.
func (m *identityManager) Submit(ctx context.Context, draft IdentityDraft) (models.Identity, error) {
	name := strings.TrimSpace(draft.Username)
	if name == "" {
		if m.policy.RequireUsername {
			return models.Identity{}, ErrEmptyUsername
		}
		name = m.policy.DefaultUsername
	}
	id := models.Identity{Username: name, Avatar: draft.Avatar}

	data, err := yaml.Marshal(id)
	if err != nil {
		return models.Identity{}, fmt.Errorf("saving identity: encoding record: %w", err)
	}
	if err := m.store.Set(ctx, UserKey, string(data)); err != nil {
		logEvent(m.events, EventIdentitySaveFailed, map[string]any{"error": err.Error()})
		return models.Identity{}, fmt.Errorf("saving identity: %w", err)
	}

	logEvent(m.events, EventIdentitySaved, map[string]any{
		"username":   id.Username,
		"has_avatar": id.HasAvatar(),
	})
	return id, nil
}

// Reset clears the entire store, not just the identity keys.
func (m *identityManager) Reset(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		logEvent(m.events, EventStoreClearFailed, map[string]any{"error": err.Error()})
		return fmt.Errorf("resetting store: %w", err)
	}
	logEvent(m.events, EventStoreCleared, nil)
	return nil
}
