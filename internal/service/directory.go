package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/repository"
	"github.com/iliyamo/club-table-booking/internal/utils"
)

// MinPasswordLength is the shortest password the directory accepts.
const MinPasswordLength = 6

// DirectoryConfig carries the token and hashing parameters.
type DirectoryConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Session is the result of a successful sign-in or refresh.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// ProfilePatch holds the fields an admin may change.  Nil fields are kept.
type ProfilePatch struct {
	Name     *string
	IsMember *bool
	IsAdmin  *bool
}

// DirectoryService owns accounts, credentials and sessions.
type DirectoryService struct {
	users  UserRepository
	tokens TokenRepository
	cfg    DirectoryConfig
	log    *zap.Logger
}

func NewDirectoryService(users UserRepository, tokens TokenRepository, cfg DirectoryConfig, log *zap.Logger) *DirectoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryService{users: users, tokens: tokens, cfg: cfg, log: log}
}

// GetProfile returns nil without error when no such user exists.
func (s *DirectoryService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, remote("get profile", err)
	}
	return &u, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, remote("list users", err)
	}
	return users, nil
}

func (s *DirectoryService) CreateAccount(ctx context.Context, email, password, name string, isMember, isAdmin bool) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, invalid("a valid email is required")
	}
	if name == "" {
		return model.User{}, invalid("name is required")
	}
	if len(password) < MinPasswordLength {
		return model.User{}, invalid("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsMember:     isMember,
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, remote("create account", err)
	}
	s.log.Info("account created", zap.String("user_id", u.ID), zap.Bool("is_admin", isAdmin))
	return u, nil
}

func (s *DirectoryService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, remote("get profile", err)
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return model.User{}, invalid("name is required")
		}
		u.Name = name
	}
	if p.IsMember != nil {
		u.IsMember = *p.IsMember
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	if err := s.users.UpdateProfile(ctx, u.ID, u.Name, u.IsMember, u.IsAdmin); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, remote("update profile", err)
	}
	return u, nil
}

// DeleteAccount removes userID and revokes its sessions.  An admin cannot
// delete their own account.
func (s *DirectoryService) DeleteAccount(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return remote("delete account", err)
	}
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Warn("revoke tokens of deleted account failed", zap.String("user_id", userID), zap.Error(err))
	}
	s.log.Info("account deleted", zap.String("user_id", userID), zap.String("by", actorID))
	return nil
}

func (s *DirectoryService) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, invalid("email/password required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, remote("authenticate", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh validates raw, revokes it and issues a new token pair.
func (s *DirectoryService) Refresh(ctx context.Context, raw string) (Session, error) {
	u, hash, err := s.userForRefresh(ctx, raw)
	if err != nil {
		return Session{}, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, remote("revoke refresh", err)
	}
	return s.issue(ctx, u)
}

// RefreshAccess returns a new access token without rotating raw.
func (s *DirectoryService) RefreshAccess(ctx context.Context, raw string) (utils.AccessToken, error) {
	u, _, err := s.userForRefresh(ctx, raw)
	if err != nil {
		return utils.AccessToken{}, err
	}
	return utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role(), s.cfg.AccessTTLMin)
}

func (s *DirectoryService) SetPassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return remote("set password", err)
	}
	return nil
}

// SignOut revokes the given refresh token, or every session of userID when
// no token is supplied.  A signed-in caller may only revoke its own tokens.
func (s *DirectoryService) SignOut(ctx context.Context, userID, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh != "" {
		hash := utils.HashRefreshRaw(rawRefresh)
		owner, err := s.tokens.ValidateRefresh(ctx, hash)
		if err != nil {
			if errors.Is(err, repository.ErrTokenInvalid) {
				return ErrInvalidCredentials
			}
			return remote("validate refresh", err)
		}
		if userID != "" && owner != userID {
			return ErrForbidden
		}
		if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
			return remote("revoke refresh", err)
		}
		return nil
	}
	if userID == "" {
		return invalid("provide Authorization header or refresh_token")
	}
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return remote("revoke sessions", err)
	}
	return nil
}

// EnsureAdmin creates an admin member with the given credentials unless an
// account with that email already exists.
func (s *DirectoryService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, remote("lookup admin", err)
	}
	if name == "" {
		name = "Administrator"
	}
	if _, err := s.CreateAccount(ctx, email, password, name, true, true); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DirectoryService) userForRefresh(ctx context.Context, raw string) (model.User, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.User{}, "", invalid("refresh_token required")
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrTokenInvalid) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", remote("validate refresh", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", remote("load user", err)
	}
	return u, hash, nil
}

func (s *DirectoryService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role(), s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, err
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, remote("store refresh", err)
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}
