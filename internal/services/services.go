package services

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/mails"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/catalog"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/users"
	"yamdb/proj/internal/storage/postgres/models"
	"yamdb/proj/internal/tokens"
)

type Services struct {
	Auth    *auth.AuthService
	Users   *users.UsersService
	Catalog *catalog.CatalogService
	Reviews *reviews.ReviewsService
}

func New(log *slog.Logger, cfg *config.Config, storage *models.Models, taskExecutor auth.TaskExecutor) *Services {
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	issuer := tokens.New(cfg.AppSecret, cfg.TokenTTL)
	return &Services{
		Auth:    auth.New(log, storage.Users, issuer, mailer, taskExecutor),
		Users:   users.New(log, storage.Users),
		Catalog: catalog.New(log, storage.Categories, storage.Genres, storage.Titles),
		Reviews: reviews.New(log, storage.Titles, storage.Reviews, storage.Comments),
	}
}
