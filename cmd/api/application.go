package main

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/storage/postgres"
	dbmodels "yamdb/proj/internal/storage/postgres/models"
	"yamdb/proj/internal/tokens"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	tokens    *tokens.Issuer
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Application {
	models := dbmodels.New(storage)
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: newValidator(cfg),
		services:  services.New(log, cfg, models, taskExecutor),
		tokens:    tokens.New(cfg.AppSecret, cfg.TokenTTL),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}

func newValidator(cfg *config.Config) *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	for tag, fn := range map[string]govalidator.Func{
		"username": validator.NewUsernameValidator(cfg.Users.ReservedUsername, cfg.Users.MaxUsernameLen),
		"slug":     validator.ValidateSlug,
		"pastyear": validator.ValidatePastYear,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}
