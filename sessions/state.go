package sessions

import (
	"context"
)

// Names of the session-scoped entries written on a successful sign-in
const (
	KeyCurrentUser  = "currentUser"
	KeyUserType     = "userType"
	KeyUserCategory = "userCategory"
	KeyAuthToken    = "authToken"
)

// Keys lists every entry the publisher owns.
var Keys = []string{KeyCurrentUser, KeyUserType, KeyUserCategory, KeyAuthToken}

// Store holds session-scoped string values partitioned by browser session.
// Get returns errors.ErrSessionKeyNotFound for an absent key or session.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Clear(ctx context.Context, sessionID, key string) error
}

// State is the session-scoped storage of a single browser session.
type State interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

type boundState struct {
	store     Store
	sessionID string
}

// Bind returns the State of one browser session in store.
func Bind(store Store, sessionID string) State {
	return boundState{store: store, sessionID: sessionID}
}

func (b boundState) Get(ctx context.Context, key string) (string, error) {
	return b.store.Get(ctx, b.sessionID, key)
}

func (b boundState) Set(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, b.sessionID, key, value)
}

func (b boundState) Clear(ctx context.Context, key string) error {
	return b.store.Clear(ctx, b.sessionID, key)
}
