package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/internal/validators"
	"github.com/MKhiriev/go-family-tree/models"
)

type personService struct {
	directory *store.Directory
	accounts  *accountLifecycle
	validator validators.Validator
	ids       IDGenerator

	contactVisibility string
	now               func() time.Time

	logger *logger.Logger
}

func NewPersonService(
	directory *store.Directory,
	accounts *accountLifecycle,
	validator validators.Validator,
	ids IDGenerator,
	cfg config.App,
	logger *logger.Logger,
) PersonService {
	return &personService{
		directory:         directory,
		accounts:          accounts,
		validator:         validator,
		ids:               ids,
		contactVisibility: cfg.ContactVisibility,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *personService) List(ctx context.Context, viewer models.Identity) ([]models.PersonView, error) {
	var views []models.PersonView
	err := s.directory.View(func(v *store.View) error {
		persons := v.List()
		views = make([]models.PersonView, 0, len(persons))
		for _, p := range persons {
			views = append(views, s.present(viewer, p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (s *personService) Get(ctx context.Context, viewer models.Identity, id string) (models.PersonView, error) {
	var view models.PersonView
	err := s.directory.View(func(v *store.View) error {
		p, err := v.Get(id)
		if err != nil {
			return err
		}
		view = s.present(viewer, p)
		return nil
	})

	return view, err
}

// Create adds a new person. The id is generated, roles default to none and
// an account is opened in the same transaction when one is requested.
func (s *personService) Create(ctx context.Context, actor models.Identity, req models.PersonCreate) (models.PersonView, error) {
	log := logger.FromContext(ctx)

	if err := requireAdmin(actor); err != nil {
		return models.PersonView{}, err
	}

	p := req.Person(s.ids.Generate())
	p.CreatedAt = s.now().UTC()
	if err := s.validator.Validate(ctx, p); err != nil {
		return models.PersonView{}, validationError(err)
	}

	change := req.AccountChange()
	if err := s.validator.Validate(ctx, change); err != nil {
		return models.PersonView{}, validationError(err)
	}
	plan, err := s.accounts.prepare(change)
	if err != nil {
		return models.PersonView{}, err
	}

	err = s.directory.Update(ctx, func(tx *store.Tx) error {
		if err := checkReferences(tx, p); err != nil {
			return err
		}
		if err := s.accounts.apply(tx, &p, plan); err != nil {
			return err
		}
		return tx.Insert(p)
	})
	if err != nil {
		log.Err(err).Str("func", "*personService.Create").Msg("error creating person")
		return models.PersonView{}, err
	}

	log.Info().Str("func", "*personService.Create").
		Str("person_id", p.ID).
		Str("role", string(p.Role)).
		Str("actor_id", actor.ID).
		Msg("person created")

	return s.present(actor, p), nil
}

// Update merges req onto the record with id. Non-admins may only edit their
// own record and may not change their own role.
func (s *personService) Update(ctx context.Context, actor models.Identity, id string, req models.PersonUpdate) (models.PersonView, error) {
	log := logger.FromContext(ctx)

	if !actor.Authenticated() {
		return models.PersonView{}, ErrUnauthenticated
	}
	if !actor.CanEdit(id) {
		return models.PersonView{}, fmt.Errorf("%w: cannot edit another person", ErrForbidden)
	}
	if !actor.IsAdmin() && req.Role != "" && req.Role != actor.Role {
		return models.PersonView{}, fmt.Errorf("%w: only admins can change roles", ErrForbidden)
	}
	if req.ID != "" && req.ID != id {
		return models.PersonView{}, validationError(ErrIDMismatch)
	}

	change := req.AccountChange()
	if err := s.validator.Validate(ctx, change); err != nil {
		return models.PersonView{}, validationError(err)
	}
	plan, err := s.accounts.prepare(change)
	if err != nil {
		return models.PersonView{}, err
	}

	var updated models.Person
	err = s.directory.Update(ctx, func(tx *store.Tx) error {
		p, err := tx.Get(id)
		if err != nil {
			return err
		}

		req.ApplyTo(&p)
		if err = s.validator.Validate(ctx, p); err != nil {
			return validationError(err)
		}
		if err = checkReferences(tx, p); err != nil {
			return err
		}
		if err = s.accounts.apply(tx, &p, plan); err != nil {
			return err
		}
		if err = tx.Put(p); err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*personService.Update").Str("person_id", id).Msg("error updating person")
		return models.PersonView{}, err
	}

	log.Info().Str("func", "*personService.Update").
		Str("person_id", id).
		Str("actor_id", actor.ID).
		Bool("account_touched", req.TouchesAccount()).
		Msg("person updated")

	return s.present(actor, updated), nil
}

func (s *personService) Delete(ctx context.Context, actor models.Identity, id string) error {
	log := logger.FromContext(ctx)

	if err := requireAdmin(actor); err != nil {
		return err
	}

	var touched int
	err := s.directory.Update(ctx, func(tx *store.Tx) error {
		var err error
		touched, err = tx.Delete(id)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*personService.Delete").Str("person_id", id).Msg("error deleting person")
		return err
	}

	log.Info().Str("func", "*personService.Delete").
		Str("person_id", id).
		Str("actor_id", actor.ID).
		Int("references_cleared", touched).
		Msg("person deleted")

	return nil
}

func (s *personService) ChangePassword(ctx context.Context, actor models.Identity, id, newPassword string) error {
	log := logger.FromContext(ctx)

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if newPassword == "" {
		return validationError(ErrPasswordRequired)
	}

	hash, err := s.accounts.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPasswordHashing, err)
	}

	err = s.directory.Update(ctx, func(tx *store.Tx) error {
		p, err := tx.Get(id)
		if err != nil {
			return err
		}
		if !p.Role.HasAccount() {
			return fmt.Errorf("%w: person %q has no account", store.ErrCredentialNotFound, id)
		}

		if err = tx.UpdatePassword(p.AccountUsername(), hash); err != nil {
			return err
		}
		p.PasswordHash = &hash
		return tx.Put(p)
	})
	if err != nil {
		log.Err(err).Str("func", "*personService.ChangePassword").Str("person_id", id).Msg("error changing password")
		return err
	}

	log.Info().Str("func", "*personService.ChangePassword").
		Str("person_id", id).
		Str("actor_id", actor.ID).
		Msg("password changed")

	return nil
}

// present applies the visibility policy: usernames are shown to admins and
// to the owner, contact numbers depend on the configured policy.
func (s *personService) present(viewer models.Identity, p models.Person) models.PersonView {
	owner := viewer.Authenticated() && viewer.ID == p.ID

	withContact := viewer.Authenticated()
	if s.contactVisibility == config.ContactVisibilityOwner {
		withContact = viewer.IsAdmin() || owner
	}

	return models.NewPersonView(p, withContact, viewer.IsAdmin() || owner)
}

// checkReferences rejects pointers and side relations to unknown ids.
func checkReferences(tx *store.Tx, p models.Person) error {
	for _, ref := range p.References() {
		if !tx.Exists(ref) {
			return validationError(fmt.Errorf("%w: unknown person %q", ErrInvalidRelation, ref))
		}
	}
	return nil
}

func requireAdmin(actor models.Identity) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
