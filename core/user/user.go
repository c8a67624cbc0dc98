package user

import (
	"strings"

	"github.com/google/uuid"
)

// Principals every caller receives, and the ones granted to
// identified callers.
const (
	PrincipalEveryone      = "system.Everyone"
	PrincipalAuthenticated = "system.Authenticated"

	userIDPrefix = "userid."
	groupPrefix  = "group."
)

// PermissionSearchAudit allows a caller to facet on audit categories.
const PermissionSearchAudit = "search_audit"

// User is the identity of the caller of a request, as asserted
// by the identity headers in front of the service.
type User struct {
	UUID   string   `json:"uuid,omitempty"`
	Email  string   `json:"email,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// Validate reports whether u carries a usable identity.
func (u *User) Validate() error {
	if u == nil {
		return ErrNoUserInformation
	}
	if u.UUID == "" {
		return ErrNoUserInformation
	}
	if _, err := uuid.Parse(u.UUID); err != nil {
		return InvalidError{UUID: u.UUID}
	}
	return nil
}

// Authenticated is true when u passes Validate.
func (u User) Authenticated() bool {
	return u.Validate() == nil
}

// EffectivePrincipals returns the principals documents are matched
// against in their principals_allowed.view list. Everyone is always
// present; identified users also carry their user id and groups.
func (u User) EffectivePrincipals() []string {
	principals := []string{PrincipalEveryone}
	if !u.Authenticated() {
		return principals
	}

	principals = append(principals, PrincipalAuthenticated, userIDPrefix+strings.ToLower(u.UUID))
	for _, g := range u.Groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		principals = append(principals, groupPrefix+g)
	}
	return principals
}

// InGroup reports whether u is an identified member of group.
func (u User) InGroup(group string) bool {
	if !u.Authenticated() {
		return false
	}
	for _, g := range u.Groups {
		if strings.TrimSpace(g) == group {
			return true
		}
	}
	return false
}

// HasPermission reports whether u holds the named permission.
func (u User) HasPermission(permission string) bool {
	switch permission {
	case PermissionSearchAudit:
		return u.Authenticated()
	default:
		return false
	}
}
