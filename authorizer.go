package community

// Authorize gates access by role. It is a pure decision function: no
// I/O, no logging. A nil user means the authenticator was skipped or
// failed without short-circuiting, which a correct middleware chain
// never produces, so it is reported as ErrUnauthenticated rather than
// panicking.
func Authorize(user *AuthenticatedUser, allowed ...UserRole) error {
	if user == nil {
		return ErrUnauthenticated
	}

	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}

	return ErrForbidden
}
