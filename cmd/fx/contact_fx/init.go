package contact_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"musicjam/internal/repositories"
	"musicjam/internal/services"
)

var Module = fx.Provide(provideContactRepo, provideContactService)

func provideContactRepo(db *gorm.DB) repositories.ContactRepository {
	return repositories.NewContactRepository(db)
}

func provideContactService(contactRepo repositories.ContactRepository) services.ContactServiceInterface {
	return services.NewContactService(contactRepo)
}
