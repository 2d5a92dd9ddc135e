package domain

const (
	RoleAuthenticated = "authenticated"
	RoleAdmin         = "admin"
	RoleService       = "service_role"
)

// Caller identifies who is invoking an operation. The zero value is an
// anonymous guest.
type Caller struct {
	UserID string
	Role   string
}

func AnonymousCaller() Caller { return Caller{} }

func (c Caller) IsAnonymous() bool {
	return c.UserID == "" && !c.IsElevated()
}

// IsElevated reports whether the caller may bypass ownership checks and set
// terminal statuses.
func (c Caller) IsElevated() bool {
	return c.Role == RoleAdmin || c.Role == RoleService
}

// UserRef returns the id to persist as the owning user, nil for guests.
func (c Caller) UserRef() *string {
	if c.UserID == "" {
		return nil
	}
	id := c.UserID
	return &id
}

// CanAccessOrder applies the row ownership rule: owners, elevated callers and
// anyone holding the id of a guest order.
func (c Caller) CanAccessOrder(o Order) bool {
	if c.IsElevated() || o.UserID == nil {
		return true
	}
	return c.UserID != "" && *o.UserID == c.UserID
}
