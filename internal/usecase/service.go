package usecase

import (
	"dcms/internal/data/repository"
	"dcms/pkg/mailer"
	"dcms/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Registration RegistrationService
	Auth         AuthService
	User         UserService
	Article      ArticleService
}

func NewService(
	repo *repository.Repository,
	tokens TokenIssuer,
	mail mailer.Sender,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Registration: NewRegistrationService(repo.User, repo.Pending, mail, tokens, RegistrationConfig{
			Expiry:        config.OTP.Expiry,
			SweepInterval: config.OTP.SweepInterval,
		}, log),
		Auth:    NewAuthService(repo.User, tokens, log),
		User:    NewUserService(repo.User, log),
		Article: NewArticleService(repo.Article, log),
	}
}

// Start launches background work owned by the services.
func (s *Service) Start() {
	s.Registration.Start()
}

// Close stops background work and waits for it to finish.
func (s *Service) Close() {
	s.Registration.Stop()
}
