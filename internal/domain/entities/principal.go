package entities

// Principal is the authenticated caller as asserted by the upstream
// authentication layer. It is passed explicitly through the call chain;
// nothing in this service reads identity from ambient state.

type Principal struct {
	UserID   string
	TenantID string
	Role     string
	Modules  []string
}

// HasModule reports whether the principal's subscription includes module.
func (p Principal) HasModule(module string) bool {
	for _, m := range p.Modules {
		if m == module {
			return true
		}
	}
	return false
}
