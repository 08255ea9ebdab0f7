package domain

// CanModify decides whether a caller may update or delete a resource owned
// by author: admins may touch anything, everyone else only their own.
func CanModify(role Role, username, author string) bool {
	return role.AtLeast(RoleAdmin) || (username != "" && username == author)
}

// Authorize applies CanModify to an existing article and returns
// ErrForbidden on denial.
func (id Identity) Authorize(a *Article) error {
	if !CanModify(id.Role, id.Username, a.Author) {
		return ErrForbidden
	}
	return nil
}
