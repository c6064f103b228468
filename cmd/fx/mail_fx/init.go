package mail_fx

import (
	"os"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"musicjam/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(log *zap.SugaredLogger) services.IMailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	cfg := services.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   "MusicJam",
		UseSSL:     port == 465,
		RequireTLS: true,

		AppName:    "MusicJam",
		AppBaseURL: os.Getenv("APP_BASE_URL"),
	}

	mailService, err := services.NewSMTPMailService(cfg)
	if err != nil {
		log.Errorw("failed to initialize SMTP mail service", "error", err)
	}
	return mailService
}
