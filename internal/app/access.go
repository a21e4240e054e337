package app

import "careers/internal/domain"

// AccessOutcome is the result of an access check.
type AccessOutcome int

const (
	// AccessUnauthenticated means there is no signed-in user.
	AccessUnauthenticated AccessOutcome = iota
	// AccessForbidden means the user lacks at least one required permission.
	AccessForbidden
	// AccessGranted means the user holds every required permission.
	AccessGranted
)

func (o AccessOutcome) String() string {
	switch o {
	case AccessUnauthenticated:
		return "unauthenticated"
	case AccessForbidden:
		return "forbidden"
	case AccessGranted:
		return "granted"
	}
	return "unknown"
}

// Authorize decides whether user may access a resource requiring all of
// required. An empty requirement admits any authenticated user.
func Authorize(user *domain.User, required ...domain.Permission) AccessOutcome {
	if user == nil {
		return AccessUnauthenticated
	}
	for _, p := range required {
		if !domain.HasPermission(user, p) {
			return AccessForbidden
		}
	}
	return AccessGranted
}

// require is the in-service form of Authorize.
func require(user *domain.User, required ...domain.Permission) error {
	switch Authorize(user, required...) {
	case AccessUnauthenticated:
		return ErrUnauthenticated
	case AccessForbidden:
		return ErrForbidden
	}
	return nil
}
