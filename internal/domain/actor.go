package domain

// Actor roles, as asserted by the upstream auth layer.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleAuthor = "author"
	RoleViewer = "viewer"
)

// Actor is the authenticated caller. Authentication itself is external;
// this service only consumes the asserted identity.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// Anonymous reports whether no identity was asserted.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// CanEdit reports whether the actor may modify the given annotation.
func (a Actor) CanEdit(ann *Annotation) bool {
	switch a.Role {
	case RoleAdmin, RoleEditor:
		return true
	case RoleAuthor:
		return ann.OwnerID == a.ID
	default:
		return false
	}
}

// CanDelete mirrors CanEdit: deletion follows the same ownership rule.
func (a Actor) CanDelete(ann *Annotation) bool {
	return a.CanEdit(ann)
}
