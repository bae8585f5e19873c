package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/models"
)

// seedService populates a directory that was opened on an empty backend,
// either from a seed document or with a single bootstrap admin.
type seedService struct {
	directory *store.Directory
	accounts  *accountLifecycle
	hasher    crypto.PasswordHasher
	ids       IDGenerator

	seedFile string
	admin    config.BootstrapAdmin

	logger *logger.Logger
}

func NewSeedService(
	directory *store.Directory,
	accounts *accountLifecycle,
	hasher crypto.PasswordHasher,
	ids IDGenerator,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) SeedService {
	return &seedService{
		directory: directory,
		accounts:  accounts,
		hasher:    hasher,
		ids:       ids,
		seedFile:  cfg.Storage.Files.SeedFile,
		admin:     cfg.App.BootstrapAdmin,
		logger:    logger,
	}
}

// Bootstrap is a no-op unless the directory started empty. The seed file
// takes precedence over the bootstrap admin.
func (s *seedService) Bootstrap(ctx context.Context) error {
	if !s.directory.Fresh() {
		s.logger.Debug().Str("func", "*seedService.Bootstrap").Msg("directory already populated, skipping seeding")
		return nil
	}

	switch {
	case s.seedFile != "":
		return s.fromFile(ctx)
	case s.admin.Enabled():
		return s.bootstrapAdmin(ctx)
	default:
		s.logger.Warn().Str("func", "*seedService.Bootstrap").
			Msg("directory is empty and neither a seed file nor a bootstrap admin is configured; nobody can log in")
		return nil
	}
}

func (s *seedService) fromFile(ctx context.Context) error {
	data, err := os.ReadFile(s.seedFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFile, err)
	}

	snap, err := store.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFile, err)
	}
	if snap, err = prepareSnapshot(s.hasher, snap); err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFile, err)
	}

	if err = s.directory.Replace(ctx, snap); err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFile, err)
	}

	s.logger.Info().Str("func", "*seedService.fromFile").
		Str("seed_file", s.seedFile).
		Int("persons", len(snap.Persons)).
		Int("accounts", len(snap.Users)).
		Msg("directory seeded")

	return nil
}

func (s *seedService) bootstrapAdmin(ctx context.Context) error {
	plan, err := s.accounts.prepare(models.AccountChange{
		Role:        models.RoleAdmin,
		NewUsername: s.admin.Username,
		NewPassword: s.admin.Password,
	})
	if err != nil {
		return err
	}

	p := models.Person{
		ID:        s.ids.Generate(),
		FirstName: s.admin.FirstName,
		LastName:  s.admin.LastName,
		Role:      models.RoleNone,
		CreatedAt: time.Now().UTC(),
	}

	err = s.directory.Update(ctx, func(tx *store.Tx) error {
		if err := s.accounts.apply(tx, &p, plan); err != nil {
			return err
		}
		return tx.Insert(p)
	})
	if err != nil {
		return fmt.Errorf("error creating bootstrap admin: %w", err)
	}

	s.logger.Info().Str("func", "*seedService.bootstrapAdmin").
		Str("person_id", p.ID).
		Str("username", s.admin.Username).
		Msg("bootstrap admin created")

	return nil
}
