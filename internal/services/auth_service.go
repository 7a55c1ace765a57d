package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

// Staff roles. Every account can ring up sales at the register; only admins
// manage the catalog and see the dashboard.
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// ErrBadCreds covers unknown emails and wrong passwords alike, so a login
// probe cannot tell which one it hit.
var ErrBadCreds = errors.New("invalid email or password")

// AuthService signs stall staff in and out and resolves session cookies to
// accounts. Accounts come from the seed; a festival stand has no
// self-registration.
type AuthService struct {
	Users *repos.UserRepo
}

// Login verifies the password and binds the register's session to the
// account.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout unbinds the session; the cookie itself is expired by the handler.
func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves a session cookie to the signed-in account.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// IsAdmin reports whether the account may manage the catalog.
func IsAdmin(u *domain.User) bool { return u != nil && u.Role == RoleAdmin }
