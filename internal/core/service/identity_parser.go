package service

import (
	"regexp"
	"strings"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// The identity endpoint answers with a sentence rather than JSON, e.g.
//
//	Authenticated user: alice with roles: [ROLE_ADMIN, ROLE_DESIGNER]
var (
	userMarker  = regexp.MustCompile(`Authenticated user: (\w+)`)
	rolesMarker = regexp.MustCompile(`with roles: \[(.*?)\]`)
)

// parseIdentity extracts the username and role list from an identity response.
// Each missing marker is a distinct ParseError reason.
func parseIdentity(body string) (string, domain.RoleSet, error) {
	user := userMarker.FindStringSubmatch(body)
	if user == nil {
		return "", nil, &domain.ParseError{Reason: domain.ErrMissingUserMarker, Body: body}
	}
	roles := rolesMarker.FindStringSubmatch(body)
	if roles == nil {
		return "", nil, &domain.ParseError{Reason: domain.ErrMissingRolesMarker, Body: body}
	}

	names := []string{}
	if roles[1] != "" {
		for _, r := range strings.Split(roles[1], ",") {
			names = append(names, strings.TrimSpace(r))
		}
	}
	return user[1], domain.NewRoleSet(names...), nil
}
