package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/crypto"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/internal/validators"
	"github.com/MKhiriev/go-family-tree/models"
)

// authService is the concrete implementation of AuthService.
// It verifies passwords against the credential store of the directory and
// issues HMAC-signed JWT session tokens carrying only the person id.
type authService struct {
	directory *store.Directory
	hasher    crypto.PasswordHasher
	validator validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// decoyOnce guards decoyHash, a hash compared against when the username
	// is unknown so that both failure paths cost one bcrypt comparison.
	decoyOnce sync.Once
	decoyHash string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService reading accounts from
// directory and populated with token parameters from cfg.
func NewAuthService(directory *store.Directory, hasher crypto.PasswordHasher, validator validators.Validator, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		directory:     directory,
		hasher:        hasher,
		validator:     validator,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Authenticate verifies req against the credential store.
//
// Returns the identity of the account or:
//   - ErrValidation if username or password is empty;
//   - ErrInvalidCredentials for an unknown username, a wrong password or a
//     person whose role no longer allows logging in.
func (a *authService) Authenticate(ctx context.Context, req models.LoginRequest) (models.Identity, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Identity{}, validationError(err)
	}

	var (
		cred   models.Credential
		found  bool
		person models.Person
	)
	err := a.directory.View(func(v *store.View) error {
		cred, found = v.FindCredentialByUsername(req.Username)
		if !found {
			return nil
		}
		var err error
		person, err = v.Get(cred.ID)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.Authenticate").Msg("error reading credential")
		return models.Identity{}, fmt.Errorf("error reading credential: %w", err)
	}

	if !found {
		// keep the timing of unknown usernames close to wrong passwords
		_ = a.hasher.Compare(a.decoy(), req.Password)
		log.Info().Str("func", "*authService.Authenticate").Msg("login with unknown username")
		return models.Identity{}, ErrInvalidCredentials
	}

	if err = a.hasher.Compare(cred.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, crypto.ErrMismatchedPassword) {
			log.Err(err).Str("func", "*authService.Authenticate").Str("person_id", cred.ID).Msg("stored hash is unusable")
		} else {
			log.Info().Str("func", "*authService.Authenticate").Str("person_id", cred.ID).Msg("wrong password")
		}
		return models.Identity{}, ErrInvalidCredentials
	}

	if !person.Role.HasAccount() {
		return models.Identity{}, ErrInvalidCredentials
	}

	return models.Identity{ID: person.ID, Username: cred.Username, Role: person.Role}, nil
}

// Identify rebuilds the identity of personID from the current directory
// state, so role changes apply to sessions that are already open.
func (a *authService) Identify(ctx context.Context, personID string) (models.Identity, error) {
	var identity models.Identity
	err := a.directory.View(func(v *store.View) error {
		p, err := v.Get(personID)
		if err != nil {
			return err
		}
		cred, ok := v.FindCredentialByID(personID)
		if !ok || !p.Role.HasAccount() {
			return ErrTokenIsExpiredOrInvalid
		}
		identity = models.Identity{ID: p.ID, Username: cred.Username, Role: p.Role}
		return nil
	})
	if errors.Is(err, store.ErrPersonNotFound) {
		return models.Identity{}, ErrTokenIsExpiredOrInvalid
	}

	return identity, err
}

// CreateToken issues a signed JWT for identity.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, identity models.Identity) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, identity.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string. Any validation failure
// (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) decoy() string {
	a.decoyOnce.Do(func() {
		hash, err := a.hasher.Hash("decoy password for unknown usernames")
		if err != nil {
			a.logger.Err(err).Str("func", "*authService.decoy").Msg("error hashing decoy password")
			return
		}
		a.decoyHash = hash
	})
	return a.decoyHash
}
