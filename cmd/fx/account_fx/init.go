package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"musicjam/internal/repositories"
	"musicjam/internal/services"
	mem "musicjam/pkg/memcache"
)

var Module = fx.Provide(provideAccountRepo, provideAccountService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	mailService services.IMailService,
	resetTokens mem.ResetTokenStore,
	log *zap.SugaredLogger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, mailService, resetTokens, log)
}
