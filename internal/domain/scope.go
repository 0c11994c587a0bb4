package domain

// Scope restricts which products a caller may see. The access policy itself
// (who gets which scope) is decided by the transport layer; the search core
// only narrows candidate loading to it.
type Scope struct {
	ownerID string
	all     bool
}

// ScopeAll grants visibility over every product.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeOwner restricts visibility to products owned by the given principal.
func ScopeOwner(ownerID string) Scope {
	return Scope{ownerID: ownerID}
}

// IsAll reports whether the scope covers all products.
func (s Scope) IsAll() bool { return s.all }

// OwnerID returns the owning principal for owner-restricted scopes.
func (s Scope) OwnerID() string { return s.ownerID }

// Contains reports whether a product owned by ownerID is visible in the scope.
func (s Scope) Contains(ownerID string) bool {
	return s.all || s.ownerID == ownerID
}
