package ui

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	generalBadge  = "General Login"
	noTokenNotice = "No token provided"
)

// signupVisibility is keyed by the page's type parameter, not by the access token.
var signupVisibility = map[string]bool{
	"users":    true,
	"couriers": true,
	"managers": false,
}

// SignupVisible reports whether the sign-up section shows for a type value.
func SignupVisible(roleType string) bool {
	return signupVisibility[roleType]
}

// PageState is the presentation state of the sign-in page
type PageState struct {
	Badge        string
	TokenDisplay string
	ShowSignup   bool
	SignupLink   string
}

// Initializer computes the page state from the request's token and type.
type Initializer struct {
	signupURL string
	logger    zerolog.Logger
}

// InitializerOption configures an Initializer
type InitializerOption func(*Initializer)

// WithLogger sets the logger used for missing-markup diagnostics.
func WithLogger(logger zerolog.Logger) InitializerOption {
	return func(i *Initializer) {
		i.logger = logger
	}
}

func NewInitializer(signupURL string, options ...InitializerOption) *Initializer {
	i := &Initializer{signupURL: signupURL, logger: log.Logger}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Initialize never fails: state for elements missing from markup is left empty and the
// omission is logged.
func (i *Initializer) Initialize(token, roleType string, markup Markup) PageState {
	var state PageState

	if i.present(markup, ElementBadge) {
		state.Badge = Badge(roleType)
	}

	if i.present(markup, ElementTokenDisplay) {
		state.TokenDisplay = token
		if token == "" {
			state.TokenDisplay = noTokenNotice
		}
	}

	if i.present(markup, ElementSignupSection) && roleType != "" && SignupVisible(roleType) {
		state.ShowSignup = true
		if i.present(markup, ElementSignupLink) {
			state.SignupLink = i.signupLink(roleType, token)
		}
	}

	return state
}

func (i *Initializer) present(markup Markup, element string) bool {
	if markup != nil && markup.Has(element) {
		return true
	}
	i.logger.Warn().
		Err(apperrors.ErrMissingMarkup).
		Str("element", element).
		Msg("Page element not found, skipping")
	return false
}

func (i *Initializer) signupLink(roleType, token string) string {
	sep := "?"
	if strings.Contains(i.signupURL, "?") {
		sep = "&"
	}
	return i.signupURL + sep + "type=" + url.QueryEscape(roleType) + "&token=" + url.QueryEscape(token)
}

// Badge returns the login badge text for a type value: the type with its first letter
// upper-cased followed by " Login", or "General Login" when no type is given.
func Badge(roleType string) string {
	if roleType == "" {
		return generalBadge
	}
	r, size := utf8.DecodeRuneInString(roleType)
	return string(unicode.ToUpper(r)) + roleType[size:] + " Login"
}
