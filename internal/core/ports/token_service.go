package ports

import "github.com/newsdesk/article-cms/internal/core/domain"

// TokenValidation is the outcome of checking a bearer token. Valid is false
// for any structural, signature or expiry failure; Expired narrows the reason.
type TokenValidation struct {
	Username string
	Role     domain.Role
	Expired  bool
	Valid    bool
}

// TokenService issues and checks stateless signed tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Validate(token string) TokenValidation
	// ExtractSubject reads the subject without verifying the signature. It is
	// for diagnostics only and must never be used to authenticate.
	ExtractSubject(token string) (string, error)
}
