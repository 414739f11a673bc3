package signin

import "net/url"

// Query parameter names carried by the sign-in page URL
const (
	TokenParam = "token"
	TypeParam  = "type"
)

// Context holds the request values the sign-in components read. Token and Type are
// independent of each other.
type Context struct {
	Token string
	Type  string
}

func FromQuery(q url.Values) Context {
	return Context{
		Token: q.Get(TokenParam),
		Type:  q.Get(TypeParam),
	}
}

// Query re-encodes the context so a form can post back to the same page.
func (c Context) Query() string {
	q := url.Values{}
	if c.Type != "" {
		q.Set(TypeParam, c.Type)
	}
	if c.Token != "" {
		q.Set(TokenParam, c.Token)
	}
	return q.Encode()
}

// Form is a submitted credential. It is never stored.
type Form struct {
	Identifier string
	Password   string
}
