package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"dcms/internal/data/entity"
	"dcms/internal/data/repository"
	"dcms/internal/dto/request"
	"dcms/internal/dto/response"
	"dcms/pkg/mailer"
	"dcms/pkg/utils"

	"go.uber.org/zap"
)

const (
	DefaultOTPExpiry     = 10 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// RegistrationService gates account creation behind an emailed one-time code.
// Unverified accounts are never written to the user store.
type RegistrationService interface {
	SendCode(ctx context.Context, req *request.SendOTPRequest) (*response.MessageResponse, error)
	VerifyCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error)
	// Start launches the background sweep of expired pending registrations.
	Start()
	// Stop cancels the sweep and waits for it to exit.
	Stop()
}

type RegistrationConfig struct {
	Expiry        time.Duration
	SweepInterval time.Duration
}

type registrationService struct {
	users   repository.UserRepository
	pending repository.PendingStore
	mail    mailer.Sender
	session *sessionIssuer
	cfg     RegistrationConfig
	log     *zap.Logger

	now          func() time.Time
	generateCode func() (string, error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRegistrationService(
	users repository.UserRepository,
	pending repository.PendingStore,
	mail mailer.Sender,
	tokens TokenIssuer,
	cfg RegistrationConfig,
	log *zap.Logger,
) RegistrationService {
	return newRegistrationService(users, pending, mail, tokens, cfg, log)
}

func newRegistrationService(
	users repository.UserRepository,
	pending repository.PendingStore,
	mail mailer.Sender,
	tokens TokenIssuer,
	cfg RegistrationConfig,
	log *zap.Logger,
) *registrationService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultOTPExpiry
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	log = log.With(zap.String("service", "registration"))
	return &registrationService{
		users:   users,
		pending: pending,
		mail:    mail,
		session: &sessionIssuer{users: users, tokens: tokens, log: log},
		cfg:     cfg,
		log:     log,

		now:          time.Now,
		generateCode: utils.GenerateOTP,
	}
}

func (s *registrationService) SendCode(ctx context.Context, req *request.SendOTPRequest) (*response.MessageResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Send OTP validation failed", zap.Any("errors", errs))
		return nil, newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	// 2. Only emails without a confirmed account may register
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to check email", err)
	}
	if existing != nil {
		return nil, newError(KindConflict, "User with this email already exists")
	}

	// 3. Code and password hash; the plaintext password is not kept
	code, err := s.generateCode()
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return nil, wrapError(KindInternal, "Failed to generate OTP", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, passwordHashError(s.log, err)
	}

	// 4. Store, replacing any earlier code for this email
	now := s.now()
	entry := &entity.PendingRegistration{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Code:         code,
		ExpiresAt:    now.Add(s.cfg.Expiry),
		CreatedAt:    now,
	}
	if err := s.pending.Put(ctx, entry); err != nil {
		return nil, wrapError(KindInternal, "Failed to generate OTP", err)
	}

	// 5. Deliver; roll back our entry if the code cannot reach the user
	if err := s.mail.Send(ctx, req.Email, mailer.OTPSubject, mailer.OTPBody(code, s.cfg.Expiry)); err != nil {
		s.log.Warn("Failed to deliver OTP", zap.Error(err), zap.String("email", req.Email))
		if _, delErr := s.pending.DeleteIfCode(context.WithoutCancel(ctx), req.Email, code); delErr != nil {
			s.log.Error("Failed to roll back pending registration",
				zap.Error(delErr), zap.String("email", req.Email))
		}
		return nil, wrapError(KindBadRequest, "Failed to send OTP email. Please check your email address.", err)
	}

	s.log.Info("OTP sent",
		zap.String("email", req.Email),
		zap.Time("expires_at", entry.ExpiresAt),
	)

	return &response.MessageResponse{Message: "OTP sent successfully to your email"}, nil
}

func (s *registrationService) VerifyCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify OTP validation failed", zap.Any("errors", errs))
		return nil, newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	// 2. Find pending entry
	entry, err := s.pending.Get(ctx, req.Email)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to verify OTP", err)
	}
	if entry == nil {
		return nil, newError(KindNotFound, "OTP not found or expired. Please request a new one.")
	}

	// 3. Expired entries are removed so they can never verify
	if entry.Expired(s.now()) {
		if _, err := s.pending.DeleteIfCode(ctx, req.Email, entry.Code); err != nil {
			s.log.Error("Failed to delete expired pending registration",
				zap.Error(err), zap.String("email", req.Email))
		}
		return nil, newError(KindBadRequest, "OTP has expired. Please request a new one.")
	}

	// 4. Wrong guesses keep the entry so the user can retry until expiry
	if entry.Code != req.OTP {
		s.log.Warn("Invalid OTP attempt", zap.String("email", req.Email))
		return nil, newError(KindBadRequest, "Invalid OTP code")
	}

	// 5. Create the account with the hash computed at send time
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        entry.Email,
		PasswordHash: entry.PasswordHash,
		Role:         entity.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.consume(ctx, entry)
			return nil, wrapError(KindConflict, "User with this email already exists", err)
		}
		return nil, wrapError(KindInternal, "Failed to create account", err)
	}

	// 6. No replay
	s.consume(ctx, entry)

	// 7. Best effort
	if err := s.mail.Send(ctx, user.Email, mailer.WelcomeSubject, mailer.WelcomeBody()); err != nil {
		s.log.Warn("Failed to send welcome email", zap.Error(err), zap.String("email", user.Email))
	}

	tokens, err := s.session.start(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &response.AuthResponse{
		TokenResponse: *tokens,
		User:          response.UserToResponse(user),
	}, nil
}

func (s *registrationService) consume(ctx context.Context, entry *entity.PendingRegistration) {
	if _, err := s.pending.DeleteIfCode(context.WithoutCancel(ctx), entry.Email, entry.Code); err != nil {
		s.log.Error("Failed to consume pending registration",
			zap.Error(err), zap.String("email", entry.Email))
	}
}

// ==================== SWEEPER ====================

func (s *registrationService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.sweepLoop(s.stopCh, s.doneCh)

	s.log.Info("Pending registration sweeper started", zap.Duration("interval", s.cfg.SweepInterval))
}

func (s *registrationService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
	s.log.Info("Pending registration sweeper stopped")
}

func (s *registrationService) sweepLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-stopCh:
			return
		}
	}
}

func (s *registrationService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.pending.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to sweep pending registrations", zap.Error(err))
		return
	}
	if removed > 0 {
		s.log.Info("Expired pending registrations swept", zap.Int("removed", removed))
	}
}
