package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/service"
	"github.com/phrazzld/contacts-api/internal/store"
	"github.com/phrazzld/contacts-api/internal/task"
)

// TokenTypeBearer is the token_type reported to clients on login.
const TokenTypeBearer = "bearer"

const mailTimeout = 30 * time.Second

// VerificationMailer delivers email verification links.
type VerificationMailer interface {
	SendVerification(ctx context.Context, to, verifyURL string) error
}

// ImageHost stores uploaded images and returns their public URL.
type ImageHost interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// EventRecorder receives auth outcomes for metrics. Optional.
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// Service implements the account workflows.
type Service struct {
	tx        store.TxManager
	users     store.UserStore
	hasher    PasswordHasher
	tokens    JWTService
	mailer    VerificationMailer
	images    ImageHost
	recorder  EventRecorder
	verifyURL string
	logger    *slog.Logger

	jobs      *task.Runner
	dummyOnce sync.Once
	dummyHash string
}

// NewService creates the auth service. publicBaseURL is the externally
// reachable root used to build verification links.
func NewService(
	tx store.TxManager,
	users store.UserStore,
	hasher PasswordHasher,
	tokens JWTService,
	mailer VerificationMailer,
	images ImageHost,
	publicBaseURL string,
	logger *slog.Logger,
) (*Service, error) {
	switch {
	case tx == nil:
		return nil, errors.New("tx manager cannot be nil")
	case users == nil:
		return nil, errors.New("user store cannot be nil")
	case hasher == nil:
		return nil, errors.New("password hasher cannot be nil")
	case tokens == nil:
		return nil, errors.New("jwt service cannot be nil")
	case mailer == nil:
		return nil, errors.New("mailer cannot be nil")
	case images == nil:
		return nil, errors.New("image host cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "auth_service"))
	jobs := task.NewRunner(task.DefaultRunnerConfig(), logger)
	jobs.Start()

	return &Service{
		tx:        tx,
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		images:    images,
		verifyURL: strings.TrimRight(publicBaseURL, "/") + "/auth/verify",
		logger:    logger,
		jobs:      jobs,
	}, nil
}

// SetEventRecorder attaches a metrics recorder.
func (s *Service) SetEventRecorder(r EventRecorder) {
	s.recorder = r
}

func (s *Service) record(event, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordAuthEvent(event, outcome)
	}
}

// Register creates an unverified account and dispatches a verification email
// in the background. Returns store.ErrEmailExists if the email is taken.
// Mail delivery failures are logged, never returned.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "cannot be empty", nil)
	}
	if len(password) > MaxPasswordBytes {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes), nil)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		_, err := users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return store.ErrEmailExists
		case !errors.Is(err, store.ErrUserNotFound):
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.record("register", "conflict")
		}
		return nil, err
	}

	s.record("register", "success")
	log.Info("user registered", slog.String("user_id", user.ID.String()))

	s.dispatchVerification(ctx, user)
	return user, nil
}

// dispatchVerification sends the verification link without blocking the caller.
func (s *Service) dispatchVerification(ctx context.Context, user *domain.User) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", user.ID.String()))

	token, err := s.tokens.GenerateToken(ctx, user.Email)
	if err != nil {
		log.Error("failed to issue verification token", slog.String("error", err.Error()))
		s.record("verification_mail", "failure")
		return
	}
	link := s.verifyURL + "?token=" + url.QueryEscape(token)

	send := task.NewFunc("verification_mail", func(taskCtx context.Context) error {
		sendCtx, cancel := context.WithTimeout(taskCtx, mailTimeout)
		defer cancel()

		if err := s.mailer.SendVerification(sendCtx, user.Email, link); err != nil {
			s.record("verification_mail", "failure")
			return fmt.Errorf("send verification to user %s: %w", user.ID, err)
		}
		s.record("verification_mail", "success")
		return nil
	})
	if err := s.jobs.Submit(send); err != nil {
		log.Warn("failed to queue verification email", slog.String("error", err.Error()))
		s.record("verification_mail", "failure")
	}
}

// Wait blocks until every queued verification email has been attempted.
func (s *Service) Wait() {
	s.jobs.Wait()
}

// Close drains pending verification mail and stops the background workers.
func (s *Service) Close() {
	s.jobs.Stop()
}

// Login checks credentials and issues a token pair. An unknown email and a
// wrong password both yield ErrInvalidCredentials after a full bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		user, err = s.users.WithTx(tx).GetByEmail(ctx, email)
		return err
	})

	switch {
	case errors.Is(err, store.ErrUserNotFound):
		s.hasher.Verify(s.dummy(), password)
		s.record("login", "failure")
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	case !s.hasher.Verify(user.HashedPassword, password):
		s.record("login", "failure")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	s.record("login", "success")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		s.record("refresh", "failure")
		return nil, err
	}
	if _, err := s.lookup(ctx, claims.Subject); err != nil {
		s.record("refresh", "failure")
		return nil, err
	}

	pair, err := s.issuePair(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	s.record("refresh", "success")
	return pair, nil
}

// VerifyEmail marks the token subject's account as verified.
// An invalid token yields ErrInvalidToken; an unknown subject yields
// store.ErrUserNotFound. Verifying twice succeeds.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		s.record("verify_email", "failure")
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByEmail(ctx, claims.Subject)
		if err != nil {
			return err
		}
		if user.IsVerified {
			return nil
		}
		return users.MarkVerified(ctx, user.ID)
	})
	if err != nil {
		s.record("verify_email", "failure")
		return err
	}

	s.record("verify_email", "success")
	return nil
}

// UploadAvatar stores data on the image host and persists the returned URL
// on the user. Image host failures wrap service.ErrUpstreamFailure.
func (s *Service) UploadAvatar(
	ctx context.Context,
	user *domain.User,
	data []byte,
	contentType string,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(data) == 0 {
		return "", domain.NewValidationError("file", "cannot be empty", nil)
	}

	key := fmt.Sprintf("avatars/%s/%s", user.ID, uuid.NewString())
	avatarURL, err := s.images.Upload(ctx, key, data, contentType)
	if err != nil {
		log.Error("image host upload failed",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", service.ErrUpstreamFailure, err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).UpdateAvatarURL(ctx, user.ID, avatarURL)
	})
	if err != nil {
		return "", err
	}

	user.AvatarURL = avatarURL
	return avatarURL, nil
}

// CurrentUser resolves an access token to its user. Any failure, including a
// subject that no longer exists, wraps ErrInvalidToken.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, claims.Subject)
}

func (s *Service) lookup(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		user, err = s.users.WithTx(tx).GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issuePair(ctx context.Context, subject string) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// dummy returns a hash compared against when the email is unknown, so that
// both login failure paths cost one bcrypt comparison.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = hashed
		}
	})
	return s.dummyHash
}
