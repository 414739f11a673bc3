package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/delivery-signin/auth"
)

// RedirectTarget is the location the caller is sent to after signing in
type RedirectTarget string

func (t RedirectTarget) String() string {
	return string(t)
}

// Publisher writes the session descriptor of a verified user and computes where the
// caller goes next.
type Publisher struct {
	dashboardPath string
}

func NewPublisher(dashboardPath string) *Publisher {
	return &Publisher{dashboardPath: dashboardPath}
}

// Publish overwrites the four session entries (record, role type, category, token) and
// returns the dashboard location carrying type, category and the identifier exactly as
// it was submitted. Every entry is attempted even when an earlier write fails.
func (p *Publisher) Publish(ctx context.Context, state State, user *auth.AuthenticatedUser, roleType, token, identifier string) (RedirectTarget, error) {
	if user == nil {
		return "", errors.New("[Publish] user is required")
	}
	category := user.Category().String()

	entries := []struct{ key, value string }{
		{KeyCurrentUser, string(user.Record.Raw())},
		{KeyUserType, roleType},
		{KeyUserCategory, category},
		{KeyAuthToken, token},
	}

	var errs []error
	for _, e := range entries {
		if err := state.Set(ctx, e.key, e.value); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", e.key, err))
		}
	}
	if len(errs) > 0 {
		return "", fmt.Errorf("[Publish] %w", errors.Join(errs...))
	}

	return p.redirectTarget(roleType, category, identifier), nil
}

func (p *Publisher) redirectTarget(roleType, category, identifier string) RedirectTarget {
	sep := "?"
	if strings.Contains(p.dashboardPath, "?") {
		sep = "&"
	}
	// Parameter order is fixed: type, category, id.
	return RedirectTarget(p.dashboardPath + sep +
		"type=" + url.QueryEscape(roleType) +
		"&category=" + url.QueryEscape(category) +
		"&id=" + url.QueryEscape(identifier))
}
