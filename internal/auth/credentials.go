package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"streamly/internal/domain"
	"streamly/internal/logging"
)

const (
	minPasswordLen = 6
	maxUsernameLen = 30
	// bcrypt rejects longer inputs.
	maxPasswordLen = 72
)

type UserStore interface {
	UserFinder
	CreateUser(ctx context.Context, email, username, passwordHash string, role domain.Role) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Credentials registers accounts and verifies passwords, issuing a session on success.
type Credentials struct {
	store    UserStore
	sessions *Sessions
	logger   *log.Logger
	cost     int
}

func NewCredentials(store UserStore, sessions *Sessions, logger *log.Logger) *Credentials {
	return &Credentials{
		store:    store,
		sessions: sessions,
		logger:   logging.With(logger, "component", "auth"),
		cost:     bcrypt.DefaultCost,
	}
}

func (c *Credentials) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return domain.User{}, "", domain.Validation("email, username and password are required")
	}
	if !strings.Contains(email, "@") {
		return domain.User{}, "", domain.Validation("invalid email")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, "", domain.Validation("password must be at least 6 characters")
	}
	if len(in.Password) > maxPasswordLen {
		return domain.User{}, "", domain.Validation("password must be at most 72 bytes")
	}
	if len([]rune(username)) > maxUsernameLen {
		return domain.User{}, "", domain.Validation("username must be at most 30 characters")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleListener
	}
	if !role.Valid() {
		return domain.User{}, "", domain.Validation("role must be listener or artist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), c.cost)
	if err != nil {
		c.logger.Error("hash password", "err", err)
		return domain.User{}, "", domain.Unexpected("hash password", err)
	}

	u, err := c.store.CreateUser(ctx, email, username, string(hash), role)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := c.sessions.Issue(u.ID)
	if err != nil {
		c.logger.Error("issue token", "user", u.ID, "err", err)
		return domain.User{}, "", domain.Unexpected("issue token", err)
	}
	c.logger.Info("user registered", "user", u.ID, "role", u.Role)
	return u, token, nil
}

var errBadCredentials = domain.Authentication("invalid credentials")

// Login verifies a password. Unknown email and wrong password are indistinguishable.
func (c *Credentials) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", domain.Validation("please provide email and password")
	}

	u, err := c.store.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", errBadCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", errBadCredentials
	}

	token, err := c.sessions.Issue(u.ID)
	if err != nil {
		c.logger.Error("issue token", "user", u.ID, "err", err)
		return domain.User{}, "", domain.Unexpected("issue token", err)
	}
	return u, token, nil
}
