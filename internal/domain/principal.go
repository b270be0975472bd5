package domain

// Principal is the request-scoped authenticated identity derived from a
// validated token's claims. It is never persisted; the token is the source.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the principal carries the given role name.
func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}
