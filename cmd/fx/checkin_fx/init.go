package checkin_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"musicjam/internal/repositories"
	"musicjam/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideCheckInRepo, provideNotifier, provideClock, provideCheckInManager),
	fx.Invoke(registerMonitor),
)

func provideCheckInRepo(db *gorm.DB) repositories.CheckInRepository {
	return repositories.NewCheckInRepository(db)
}

func provideNotifier(
	mailService services.IMailService,
	accountRepo repositories.AccountRepository,
	log *zap.SugaredLogger,
) services.Notifier {
	return services.NewMailNotifier(mailService, accountRepo, log)
}

func provideClock() services.Clock {
	return services.NewSystemClock()
}

func provideCheckInManager(
	repo repositories.CheckInRepository,
	notifier services.Notifier,
	clock services.Clock,
	log *zap.SugaredLogger,
) (*services.CheckInManager, services.CheckInManagerInterface) {
	manager := services.NewCheckInManager(repo, notifier, clock, log)
	return manager, manager
}

// registerMonitor restores persisted check-ins before serving and binds the
// deadline sweep to the application lifecycle.
func registerMonitor(lc fx.Lifecycle, manager *services.CheckInManager, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := manager.Restore(ctx); err != nil {
				return err
			}
			manager.StartMonitor()
			log.Info("check-in monitor started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			manager.StopMonitor()
			log.Info("check-in monitor stopped")
			return nil
		},
	})
}
