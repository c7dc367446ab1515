package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	apperrors "github.com/servis-automat/servis/internal/shared/errors"
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const accessTokenName = "access token"

type Claims struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ClubID    *uint     `json:"club_id,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 access tokens. Resolve never touches
// storage; the token alone establishes the caller.
type JWTService struct {
	secret           []byte
	accessExpMinutes int
	now              func() time.Time
}

func NewJWTService(secret string, accessExpMinutes int) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		now:              biztime.NowUTC,
	}
}

// Issue signs an access token for id. The ExpiresAt field of id is ignored and
// the actual expiry is returned.
func (s *JWTService) Issue(id authorization.Identity) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(time.Duration(s.accessExpMinutes) * time.Minute)

	var clubID *uint
	if id.Role.IsClub() && id.ClubID != nil {
		v := *id.ClubID
		clubID = &v
	}

	claims := &Claims{
		Email:     id.Email,
		Role:      id.Role.String(),
		ClubID:    clubID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.SubjectID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, exp, nil
}

// Resolve verifies tokenString and returns the caller it names. Every failure
// is an unauthorized *errors.AuthError.
func (s *JWTService) Resolve(tokenString string) (authorization.Identity, error) {
	if tokenString == "" {
		return authorization.Identity{}, apperrors.NewMissingCredentialError()
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authorization.Identity{}, apperrors.NewTokenExpiredError(accessTokenName)
		}
		return authorization.Identity{}, apperrors.NewTokenInvalidError(accessTokenName)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != TokenTypeAccess {
		return authorization.Identity{}, apperrors.NewTokenInvalidError(accessTokenName)
	}

	subjectID, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || subjectID == 0 {
		return authorization.Identity{}, apperrors.NewTokenInvalidError(accessTokenName)
	}

	role, ok := authorization.ParseUserRole(claims.Role)
	if !ok {
		return authorization.Identity{}, apperrors.NewTokenInvalidError(accessTokenName)
	}

	identity := authorization.Identity{
		SubjectID: uint(subjectID),
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if role.IsClub() {
		identity.ClubID = claims.ClubID
	}

	return identity, nil
}
