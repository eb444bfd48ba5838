package validation

import "strings"

// Credentials is the login form.
type Credentials struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

// ValidCredentials reports whether the login form has an e-mail address
// and a password of at least six characters.
func ValidCredentials(c Credentials) bool {
	c.Email = strings.TrimSpace(c.Email)
	return Validator().Struct(c) == nil
}
