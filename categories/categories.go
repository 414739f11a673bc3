package categories

import (
	"sort"
)

// AccessToken selects which credential dataset and identity rule apply. It is a routing
// key, not a credential.
type AccessToken string

const (
	UserToken    AccessToken = "USR_TOKEN"
	CourierToken AccessToken = "CUR_TOKEN"
	ManagerToken AccessToken = "MGR_TOKEN"
)

// Category is one of the role partitions of the delivery service
type Category string

const (
	User    Category = "user"
	Courier Category = "courier"
	Manager Category = "manager"
)

func (c Category) String() string {
	return string(c)
}

// Descriptor is everything the sign-in flow needs to know about a category.
type Descriptor struct {
	Token         AccessToken  // Token that routes to this category
	Category      Category     // Resolved category
	Dataset       string       // Locator of the JSON array holding the category's records
	IdentityField string       // Record attribute compared against the submitted identifier
	IdentityKind  IdentityKind // How the identity field is compared
}

// Registry maps access tokens to category descriptors. The zero value has no entries.
type Registry struct {
	entries map[AccessToken]Descriptor
}

// New builds a registry from the given descriptors. A later descriptor for the same
// token replaces an earlier one.
func New(descriptors ...Descriptor) *Registry {
	r := &Registry{entries: make(map[AccessToken]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		r.entries[d.Token] = d
	}
	return r
}

var defaultDescriptors = []Descriptor{
	{
		Token:         UserToken,
		Category:      User,
		Dataset:       "customers.json",
		IdentityField: "customer_id",
		IdentityKind:  IdentityString,
	},
	{
		Token:         CourierToken,
		Category:      Courier,
		Dataset:       "courier.json",
		IdentityField: "courier_id",
		IdentityKind:  IdentityInteger,
	},
	{
		Token:         ManagerToken,
		Category:      Manager,
		Dataset:       "managers.json",
		IdentityField: "manager_id",
		IdentityKind:  IdentityString,
	},
}

// Default returns the registry of the three pre-shared tokens.
func Default() *Registry {
	return New(defaultDescriptors...)
}

// Resolve returns the descriptor for token. The lookup is exact and case-sensitive.
func (r *Registry) Resolve(token string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.entries[AccessToken(token)]
	return d, ok
}

// Descriptors lists every registered descriptor ordered by token.
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		return nil
	}
	list := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Token < list[j].Token
	})
	return list
}
