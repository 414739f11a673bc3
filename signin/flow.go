package signin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/delivery-signin/auth"
	"github.com/jrsteele09/delivery-signin/sessions"
	"github.com/jrsteele09/delivery-signin/ui"
	"github.com/rs/zerolog/log"
)

// Banner messages
const (
	InvalidTokenMessage       = "Invalid access token. Please start from the main page."
	CredentialMismatchMessage = "Wrong credentials. Please try again."
	AttemptInFlightMessage    = "Sign-in already in progress. Please wait."
	SessionFailureMessage     = "Could not start your session. Please try again."
	SignInFailureMessage      = "Sign-in failed. Please try again later."
	unavailableMessageFormat  = "%s login system temporarily unavailable. Please try again later."
)

// CredentialVerifier checks a credential against the dataset a token routes to
type CredentialVerifier interface {
	Verify(ctx context.Context, token, identifier, password string) (*auth.AuthenticatedUser, error)
}

// SessionPublisher records a verified user in session state
type SessionPublisher interface {
	Publish(ctx context.Context, state sessions.State, user *auth.AuthenticatedUser, roleType, token, identifier string) (sessions.RedirectTarget, error)
}

// Outcome is the result of one submission. On success Redirect is set and Banner is
// hidden; otherwise Banner carries the message and Form is what the page shows again,
// identifier kept and password cleared.
type Outcome struct {
	Redirect sessions.RedirectTarget
	Banner   *ui.Presenter
	Form     Form
	Err      error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Redirect != ""
}

// Flow runs a submission: verify, then publish the session or show a banner.
type Flow struct {
	verifier  CredentialVerifier
	publisher SessionPublisher
	guard     *AttemptGuard
}

func NewFlow(verifier CredentialVerifier, publisher SessionPublisher, guard *AttemptGuard) (*Flow, error) {
	if verifier == nil {
		return nil, errors.New("[NewFlow] verifier is required")
	}
	if publisher == nil {
		return nil, errors.New("[NewFlow] publisher is required")
	}
	if guard == nil {
		guard = NewAttemptGuard()
	}
	return &Flow{verifier: verifier, publisher: publisher, guard: guard}, nil
}

// Submit handles one attempt for the form identified by attemptKey. A second submission
// for the same key while the first is outstanding is rejected with ErrAttemptInFlight and
// leaves the first untouched. Session state is written only after a successful verify.
func (f *Flow) Submit(ctx context.Context, attemptKey string, rc Context, form Form, state sessions.State) Outcome {
	banner := ui.NewPresenter()

	release, err := f.guard.Begin(attemptKey)
	if err != nil {
		banner.ShowInfo(AttemptInFlightMessage)
		return Outcome{Banner: banner, Form: Form{Identifier: form.Identifier}, Err: err}
	}
	defer release()

	user, err := f.verifier.Verify(ctx, rc.Token, form.Identifier, form.Password)
	if err != nil {
		showVerifyError(banner, err)
		return Outcome{Banner: banner, Form: Form{Identifier: form.Identifier}, Err: err}
	}

	target, err := f.publisher.Publish(ctx, state, user, rc.Type, rc.Token, form.Identifier)
	if err != nil {
		log.Err(err).Str("category", user.Category().String()).Msg("Failed to publish session")
		banner.ShowError(SessionFailureMessage)
		return Outcome{Banner: banner, Form: Form{Identifier: form.Identifier}, Err: err}
	}

	return Outcome{Redirect: target, Banner: banner, Form: Form{Identifier: form.Identifier}}
}

func showVerifyError(banner *ui.Presenter, err error) {
	var datasetErr *auth.DatasetError
	switch {
	case errors.Is(err, auth.InvalidAccessTokenErr):
		banner.ShowInfo(InvalidTokenMessage)
	case errors.As(err, &datasetErr):
		banner.ShowError(UnavailableMessage(datasetErr.Category.String()))
	case errors.Is(err, auth.CredentialMismatchErr):
		banner.ShowError(CredentialMismatchMessage)
	default:
		log.Err(err).Msg("Unexpected verification error")
		banner.ShowError(SignInFailureMessage)
	}
}

// UnavailableMessage names the category whose dataset could not be loaded.
func UnavailableMessage(category string) string {
	return fmt.Sprintf(unavailableMessageFormat, category)
}
