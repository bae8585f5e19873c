package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-family-tree/internal/app"
	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/models"
)

type dataService struct {
	directory *store.Directory
	hasher    crypto.PasswordHasher

	logger *logger.Logger
}

func NewDataService(directory *store.Directory, hasher crypto.PasswordHasher, logger *logger.Logger) DataService {
	return &dataService{
		directory: directory,
		hasher:    hasher,
		logger:    logger,
	}
}

func (d *dataService) Export(ctx context.Context, actor models.Identity) (models.Snapshot, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Snapshot{}, err
	}

	snap, err := d.directory.Snapshot()
	if err != nil {
		return models.Snapshot{}, err
	}

	logger.FromContext(ctx).Info().Str("func", "*dataService.Export").
		Str("actor_id", actor.ID).
		Int("persons", len(snap.Persons)).
		Msg("directory exported")

	return snap, nil
}

// Import replaces the whole directory. The document must contain at least
// one admin account so that the directory stays manageable afterwards.
func (d *dataService) Import(ctx context.Context, actor models.Identity, snap models.Snapshot) (models.ImportResponse, error) {
	log := logger.FromContext(ctx)

	if err := requireAdmin(actor); err != nil {
		return models.ImportResponse{}, err
	}

	snap, err := prepareSnapshot(d.hasher, snap)
	if err != nil {
		return models.ImportResponse{}, err
	}
	if !hasAdmin(snap) {
		return models.ImportResponse{}, validationError(fmt.Errorf("%w: no admin account", ErrInvalidSnapshot))
	}

	if err = d.directory.Replace(ctx, snap); err != nil {
		log.Err(err).Str("func", "*dataService.Import").Msg("error replacing directory")
		return models.ImportResponse{}, err
	}

	log.Info().Str("func", "*dataService.Import").
		Str("actor_id", actor.ID).
		Int("persons", len(snap.Persons)).
		Int("accounts", len(snap.Users)).
		Msg("directory imported")

	return models.ImportResponse{
		Message:  app.MsgImportCompleted,
		Persons:  len(snap.Persons),
		Accounts: len(snap.Users),
	}, nil
}

// prepareSnapshot returns a validated copy of snap in which every
// credential password is a bcrypt hash and every account holder carries the
// username and hash of its credential. Seed documents may list plaintext
// passwords; they are hashed here.
func prepareSnapshot(hasher crypto.PasswordHasher, snap models.Snapshot) (models.Snapshot, error) {
	out := models.Snapshot{
		Users:   make([]models.Credential, len(snap.Users)),
		Persons: make([]models.Person, len(snap.Persons)),
	}
	copy(out.Users, snap.Users)
	for i, p := range snap.Persons {
		out.Persons[i] = p.Clone()
	}

	byID := make(map[string]models.Credential, len(out.Users))
	for i := range out.Users {
		c := &out.Users[i]
		if c.PasswordHash != "" && !crypto.IsHash(c.PasswordHash) {
			hash, err := hasher.Hash(c.PasswordHash)
			if err != nil {
				return models.Snapshot{}, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
			}
			c.PasswordHash = hash
		}
		byID[c.ID] = *c
	}

	for i := range out.Persons {
		p := &out.Persons[i]
		c, ok := byID[p.ID]
		if !ok || !p.Role.HasAccount() {
			continue
		}
		if p.Username == nil {
			p.Username = models.StringPtr(c.Username)
		}
		p.PasswordHash = models.StringPtr(c.PasswordHash)
	}

	if err := out.Validate(); err != nil {
		return models.Snapshot{}, validationError(fmt.Errorf("%w: %w", ErrInvalidSnapshot, err))
	}

	return out, nil
}

func hasAdmin(snap models.Snapshot) bool {
	for _, p := range snap.Persons {
		if p.Role == models.RoleAdmin {
			return true
		}
	}
	return false
}
