package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/kafka"
	"github.com/solnguyen93/flightcast/internal/repository"
)

type AuthUseCase interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type AuthService struct {
	users              repository.UserRepository
	producer           Producer
	notificationsTopic string
	log                *logrus.Logger
}

type SignupInput struct {
	Username string
	Password string
	Email    string
}

type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
}

type AuthServiceOption func(*AuthService)

func WithProducer(producer Producer, topic string) AuthServiceOption {
	return func(s *AuthService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewAuthService(users repository.UserRepository, log *logrus.Logger, opts ...AuthServiceOption) *AuthService {
	service := &AuthService{users: users, log: log}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Signup registers a new account. Uniqueness is checked before the password
// is hashed so a taken username never costs a bcrypt round; the unique
// indexes on users remain the guard of record under concurrent signups.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.FlightEvent{
		Type:       kafka.EventUserSignedUp,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now(),
	})
	return user, nil
}

// Login verifies the credentials. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes username/email after re-authenticating with the
// current password. Uniqueness is only re-checked for fields that actually
// change.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
			return nil, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			return nil, domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if !VerifyPassword(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.UpdateProfile(ctx, userID, input.Username, input.Email); err != nil {
		return nil, err
	}
	user.Username = input.Username
	user.Email = input.Email
	return user, nil
}

// DeleteAccount removes the user; owned saved flights cascade at the store.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

func (s *AuthService) publish(ctx context.Context, event kafka.FlightEvent) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, event.Email, event); err != nil {
		s.log.WithError(err).Warn("failed to publish signup event")
	}
}

// HashPassword and VerifyPassword are kept free of repository access so
// credential logic stays testable without a database.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ AuthUseCase = (*AuthService)(nil)
