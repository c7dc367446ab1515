package user

import (
	"fmt"
	"time"

	vo "github.com/servis-automat/servis/internal/domain/user/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// User is an account. A club user always belongs to exactly one club and any
// other role never does.
type User struct {
	id           uint
	name         string
	email        string
	passwordHash string
	role         authorization.UserRole
	clubID       *uint
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(name *vo.Name, email *vo.Email, role authorization.UserRole, clubID *uint, now time.Time) (*User, error) {
	if name == nil || email == nil {
		return nil, fmt.Errorf("name and email are required")
	}
	u := &User{
		name:      name.String(),
		email:     email.String(),
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
	}
	if err := u.ChangeRole(role, clubID, now); err != nil {
		return nil, err
	}
	return u, nil
}

func ReconstructUser(id uint, name, email, passwordHash string, role authorization.UserRole, clubID *uint, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		clubID:       clubID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Name() string                 { return u.name }
func (u *User) Email() string                { return u.email }
func (u *User) PasswordHash() string         { return u.passwordHash }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) ClubID() *uint                { return u.clubID }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

func (u *User) IsTechnician() bool { return u.role.IsTechnician() }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	u.id = id
	return nil
}

func (u *User) Rename(name *vo.Name, now time.Time) {
	u.name = name.String()
	u.updatedAt = now.UTC()
}

func (u *User) ChangeEmail(email *vo.Email, now time.Time) {
	u.email = email.String()
	u.updatedAt = now.UTC()
}

// ChangeRole sets role and club together. A club role requires clubID; for
// every other role the club is cleared.
func (u *User) ChangeRole(role authorization.UserRole, clubID *uint, now time.Time) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if role.IsClub() {
		if clubID == nil || *clubID == 0 {
			return ErrClubRequired
		}
		id := *clubID
		u.clubID = &id
	} else {
		u.clubID = nil
	}
	u.role = role
	u.updatedAt = now.UTC()
	return nil
}

func (u *User) SetPassword(password *vo.Password, hasher PasswordHasher, now time.Time) error {
	if password == nil {
		return fmt.Errorf("password is required")
	}
	hash, err := hasher.Hash(password.String())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.passwordHash = hash
	u.updatedAt = now.UTC()
	return nil
}

func (u *User) VerifyPassword(password string, hasher PasswordHasher) bool {
	if u.passwordHash == "" {
		return false
	}
	return hasher.Verify(password, u.passwordHash) == nil
}
