package service

import (
	"fmt"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/internal/validators"
	"github.com/MKhiriev/go-family-tree/models"
)

type Services struct {
	AuthService    AuthService
	PersonService  PersonService
	DataService    DataService
	SeedService    SeedService
	AppInfoService AppInfoService
}

func NewServices(directory *store.Directory, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	hasher, err := crypto.NewBcryptHasher(cfg.App.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("error creating password hasher: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	validator := validators.NewPersonValidator()
	accounts := newAccountLifecycle(hasher, cfg.App.DefaultAccountPassword)

	return &Services{
		AuthService:    NewAuthService(directory, hasher, validator, cfg.App, logger),
		PersonService:  NewPersonService(directory, accounts, validator, utils.NewUUIDGenerator(), cfg.App, logger),
		DataService:    NewDataService(directory, hasher, logger),
		SeedService:    NewSeedService(directory, accounts, hasher, utils.NewUUIDGenerator(), cfg, logger),
		AppInfoService: appInfo,
	}, nil
}
