package sessions

import (
	"context"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

// Session is the descriptor published on a successful sign-in, as read back by the
// dashboard.
type Session struct {
	User     jsoniter.RawMessage // Matched dataset record
	Type     string              // Role type from the sign-in URL
	Category string              // Resolved category
	Token    string              // Access token used
}

// Name returns the signed-in user's display name from the stored record.
func (s *Session) Name() string {
	return jsoniter.Get(s.User, "name").ToString()
}

// Read loads the published session of state. It returns errors.ErrSessionNotFound when no
// user has signed in.
func Read(ctx context.Context, state State) (*Session, error) {
	user, err := state.Get(ctx, KeyCurrentUser)
	if apperrors.Is(err, apperrors.ErrSessionKeyNotFound) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Read]")
	}

	s := &Session{User: jsoniter.RawMessage(user)}
	for key, dst := range map[string]*string{
		KeyUserType:     &s.Type,
		KeyUserCategory: &s.Category,
		KeyAuthToken:    &s.Token,
	} {
		value, err := state.Get(ctx, key)
		if err != nil && !apperrors.Is(err, apperrors.ErrSessionKeyNotFound) {
			return nil, apperrors.Wrapf(err, "[Read] %s", key)
		}
		*dst = value
	}
	return s, nil
}
