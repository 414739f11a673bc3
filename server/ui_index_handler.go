package server

import (
	"net/http"

	"github.com/jrsteele09/delivery-signin/categories"
)

// EntryLink is one role's way into the sign-in page
type EntryLink struct {
	Label string
	Href  string
}

// entryRoles pairs each token with the type value its entry link carries
var entryRoles = []struct {
	token    categories.AccessToken
	roleType string
	label    string
}{
	{categories.UserToken, "users", "Customers"},
	{categories.CourierToken, "couriers", "Couriers"},
	{categories.ManagerToken, "managers", "Managers"},
}

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links := make([]EntryLink, 0, len(entryRoles))
		for _, role := range entryRoles {
			links = append(links, EntryLink{
				Label: role.label,
				Href:  loginURL(string(role.token), role.roleType),
			})
		}

		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
			"Links":   links,
		}
		s.renderTemplate(w, templateIndex, http.StatusOK, data)
	}
}
