package domain

import (
	"encoding/json"
	"sort"
)

const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleDesigner = "ROLE_DESIGNER"
	RoleApprover = "ROLE_APPROVER"
)

// RoleSet is an unordered set of role names.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from names, skipping empty entries.
func NewRoleSet(names ...string) RoleSet {
	rs := make(RoleSet, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		rs[n] = struct{}{}
	}
	return rs
}

func (rs RoleSet) Has(role string) bool {
	_, ok := rs[role]
	return ok
}

// Names returns the roles sorted, for stable serialization.
func (rs RoleSet) Names() []string {
	out := make([]string, 0, len(rs))
	for n := range rs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (rs RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Names())
}

func (rs *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*rs = NewRoleSet(names...)
	return nil
}

// Credentials is the Basic-Auth pair re-sent on every API call.
type Credentials struct {
	Username string
	Secret   string
}

// Session is the authenticated identity. A *Session is either nil (logged out)
// or fully populated; Valid reports the latter.
type Session struct {
	Username string  `json:"username"`
	Roles    RoleSet `json:"roles"`
	Secret   string  `json:"-"`
}

// Valid reports whether every field of the session is present.
func (s *Session) Valid() bool {
	return s != nil && s.Username != "" && s.Secret != "" && s.Roles != nil
}

func (s *Session) Credentials() Credentials {
	return Credentials{Username: s.Username, Secret: s.Secret}
}

// Clone returns a deep copy so callers cannot mutate the store's state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := &Session{Username: s.Username, Secret: s.Secret, Roles: make(RoleSet, len(s.Roles))}
	for r := range s.Roles {
		c.Roles[r] = struct{}{}
	}
	return c
}
