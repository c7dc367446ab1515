package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/domain/user"
	vo "github.com/servis-automat/servis/internal/domain/user/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type LoginCommand struct {
	Email     string
	Password  string
	IPAddress string
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.TokenResponse, error) {
	uc.logger.Infow("executing login use case", "ip", cmd.IPAddress)

	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, errors.FromStoreError(err, "failed to log in")
	}

	// unknown email and wrong password are indistinguishable
	if existing == nil || !existing.VerifyPassword(cmd.Password, uc.hasher) {
		uc.logger.Warnw("failed login attempt", "email", email.String(), "ip", cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	uc.upgradeHash(ctx, existing, cmd.Password)

	resp, err := issueToken(uc.tokens, existing)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", existing.ID(), "error", err)
		return nil, errors.NewInternalError("failed to log in")
	}

	uc.logger.Infow("user logged in successfully", "user_id", existing.ID(), "role", existing.Role())
	return resp, nil
}

// rehasher is implemented by hashers whose work factor can change between
// deployments.
type rehasher interface {
	NeedsRehash(hash string) bool
}

// upgradeHash re-hashes a verified password made with an outdated cost.
// Failures are logged and never block the login.
func (uc *LoginUseCase) upgradeHash(ctx context.Context, u *user.User, plain string) {
	r, ok := uc.hasher.(rehasher)
	if !ok || !r.NeedsRehash(u.PasswordHash()) {
		return
	}
	password, err := vo.NewPassword(plain)
	if err != nil {
		// predates the current policy; keep the old hash
		return
	}
	if err := u.SetPassword(password, uc.hasher, biztime.NowUTC()); err != nil {
		uc.logger.Warnw("failed to rehash password", "user_id", u.ID(), "error", err)
		return
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Warnw("failed to store rehashed password", "user_id", u.ID(), "error", err)
	}
}

func identityOf(u *user.User) authorization.Identity {
	return authorization.Identity{
		SubjectID: u.ID(),
		Email:     u.Email(),
		Role:      u.Role(),
		ClubID:    u.ClubID(),
	}
}

func issueToken(tokens TokenIssuer, u *user.User) (*dto.TokenResponse, error) {
	token, expiresAt, err := tokens.Issue(identityOf(u))
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(u),
	}, nil
}
