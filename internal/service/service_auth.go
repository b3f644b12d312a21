// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-divide/internal/crypto"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/query"
	"github.com/MKhiriev/go-divide/internal/store"
	"github.com/MKhiriev/go-divide/internal/token"
	"github.com/MKhiriev/go-divide/internal/utils"
	"github.com/MKhiriev/go-divide/models"
)

// authService is the concrete implementation of AuthService.
// It talks to storage only through the DAO and the query builder, so the
// same logic runs on every driver.
type authService struct {
	// dao stores credentials as generic objects of type models.CredentialType.
	dao store.DAO

	// keys decrypts transport-encrypted passwords and serves the public key.
	keys crypto.KeyManager

	// hasher protects passwords at rest.
	hasher crypto.PasswordHasher

	// tokens issues and verifies auth and recovery tokens.
	tokens token.Codec

	// notifier receives password reset codes.
	notifier ResetNotifier

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. The returned service holds no
// mutable state of its own and is safe for concurrent use.
func NewAuthService(
	dao store.DAO,
	keys crypto.KeyManager,
	hasher crypto.PasswordHasher,
	tokens token.Codec,
	notifier ResetNotifier,
	logger *logger.Logger,
) AuthService {
	return &authService{
		dao:      dao,
		keys:     keys,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// maxSignUpAttempts bounds how often UserSignUp picks a new owner id after
// losing one to a concurrent sign-up.
const maxSignUpAttempts = 128

// CredentialUniqueFields lists the credential fields storage must keep
// unique for the auth service to work: the email address and the owner id.
func CredentialUniqueFields() []store.UniqueField {
	return []store.UniqueField{
		{Type: models.CredentialType, Field: models.FieldEmailAddress},
		{Type: models.CredentialType, Field: models.FieldOwnerID},
	}
}

// UserSignUp registers a new credential.
//
// The owner id is count(credentials) + 1. The existence check and the save
// are separate storage calls, so the save relies on the storage unique
// constraints from [CredentialUniqueFields]. A violation is ErrUserAlreadyExists
// when the email is now taken; otherwise another sign-up claimed the owner id
// and the id is picked again.
func (a *authService) UserSignUp(ctx context.Context, req models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if req.EmailAddress == "" || req.Password == "" {
		log.Error().Str("func", "authService.UserSignUp").Msg("email or password is empty")
		return models.Credential{}, ErrInvalidDataProvided
	}

	_, found, err := a.findCredential(ctx, models.FieldEmailAddress, req.EmailAddress)
	if err != nil {
		log.Err(err).Str("func", "authService.UserSignUp").Msg("credential lookup by email failed")
		return models.Credential{}, err
	}
	if found {
		log.Info().Str("func", "authService.UserSignUp").Str("email", req.EmailAddress).Msg("user already exists")
		return models.Credential{}, ErrUserAlreadyExists
	}

	hash, err := a.decryptAndHash(req.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.UserSignUp").Msg("password could not be prepared for storage")
		return models.Credential{}, err
	}

	cred := models.Credential{
		Key:          utils.NewKey(),
		EmailAddress: req.EmailAddress,
		Password:     hash,
		UserData:     map[string]any{},
	}

	for attempt := 1; attempt <= maxSignUpAttempts; attempt++ {
		count, err := a.dao.Count(ctx, models.CredentialType)
		if err != nil {
			log.Err(err).Str("func", "authService.UserSignUp").Msg("counting credentials failed")
			return models.Credential{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		cred.OwnerID = count + 1

		if cred.AuthToken, err = a.issue(token.KindAuth, cred); err != nil {
			return models.Credential{}, err
		}
		if cred.RecoveryToken, err = a.issue(token.KindRecovery, cred); err != nil {
			return models.Credential{}, err
		}

		err = a.dao.Save(ctx, cred.ToObject())
		if err == nil {
			log.Info().Str("func", "authService.UserSignUp").Int64("owner_id", cred.OwnerID).Msg("user signed up")
			return cred, nil
		}
		if !errors.Is(err, store.ErrUniqueViolation) {
			log.Err(err).Str("func", "authService.UserSignUp").Msg("saving new credential failed")
			return models.Credential{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}

		_, taken, lookupErr := a.findCredential(ctx, models.FieldEmailAddress, req.EmailAddress)
		if lookupErr != nil {
			log.Err(lookupErr).Str("func", "authService.UserSignUp").Msg("credential lookup by email failed")
			return models.Credential{}, lookupErr
		}
		if taken {
			log.Info().Str("func", "authService.UserSignUp").Str("email", req.EmailAddress).Msg("user already exists")
			return models.Credential{}, fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
		}

		log.Debug().Str("func", "authService.UserSignUp").Int64("owner_id", cred.OwnerID).Int("attempt", attempt).Msg("owner id taken, retrying")
	}

	log.Error().Str("func", "authService.UserSignUp").Msg("no free owner id")
	return models.Credential{}, ErrOwnerIDUnavailable
}

// UserSignIn authenticates req.
//
// When the stored validation code is pending and equals req.Validation the
// supplied password becomes the new password and the code is consumed.
// Otherwise the password is checked against the stored hash. In both cases
// an expired auth token is replaced before returning.
func (a *authService) UserSignIn(ctx context.Context, req models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if req.EmailAddress == "" || req.Password == "" {
		log.Error().Str("func", "authService.UserSignIn").Msg("email or password is empty")
		return models.Credential{}, ErrInvalidDataProvided
	}

	stored, found, err := a.findCredential(ctx, models.FieldEmailAddress, req.EmailAddress)
	if err != nil {
		log.Err(err).Str("func", "authService.UserSignIn").Msg("credential lookup by email failed")
		return models.Credential{}, err
	}
	if !found {
		return models.Credential{}, ErrUserDoesNotExist
	}

	password, err := a.keys.Decrypt(req.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.UserSignIn").Msg("password decryption failed")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrUndecryptablePassword, err)
	}

	var code string
	if req.Validation != nil {
		code = *req.Validation
	}

	changed := false
	if stored.HasPendingValidation(code) {
		hash, err := a.hasher.Hash(password)
		if err != nil {
			log.Err(err).Str("func", "authService.UserSignIn").Msg("hashing new password failed")
			return models.Credential{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		consumed := models.ValidationConsumed
		stored.Password = hash
		stored.Validation = &consumed
		changed = true

		log.Info().Str("func", "authService.UserSignIn").Int64("owner_id", stored.OwnerID).Msg("password reset completed")
	} else if !a.hasher.Check(stored.Password, password) {
		log.Info().Str("func", "authService.UserSignIn").Int64("owner_id", stored.OwnerID).Msg("wrong password")
		return models.Credential{}, ErrWrongPassword
	}

	current, err := a.tokens.Parse(token.KindAuth, stored.AuthToken)
	if err != nil {
		log.Err(err).Str("func", "authService.UserSignIn").Int64("owner_id", stored.OwnerID).Msg("stored auth token is unreadable")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrUnreadableToken, err)
	}

	if a.tokens.IsExpired(current) {
		if stored.AuthToken, err = a.issue(token.KindAuth, stored); err != nil {
			return models.Credential{}, err
		}
		changed = true
	}

	if changed {
		if err = a.save(ctx, stored); err != nil {
			log.Err(err).Str("func", "authService.UserSignIn").Msg("saving credential failed")
			return models.Credential{}, err
		}
	}

	return stored, nil
}

func (a *authService) GetPublicKey(ctx context.Context) []byte {
	return a.keys.EncodedPublicKey()
}

// ValidateAccount marks the credential holding code as validated.
func (a *authService) ValidateAccount(ctx context.Context, code string) (bool, error) {
	log := logger.FromContext(ctx)

	if code == "" || code == models.ValidationConsumed {
		return false, nil
	}

	cred, found, err := a.findCredential(ctx, models.FieldValidation, code)
	if err != nil {
		log.Err(err).Str("func", "authService.ValidateAccount").Msg("credential lookup by validation code failed")
		return false, err
	}
	if !found {
		return false, nil
	}

	consumed := models.ValidationConsumed
	cred.Validation = &consumed
	if err = a.save(ctx, cred); err != nil {
		log.Err(err).Str("func", "authService.ValidateAccount").Msg("saving credential failed")
		return false, err
	}

	return true, nil
}

// GetUserFromAuthToken resolves a live auth token. A token that verifies
// but is no longer stored (superseded by a refresh) is ErrInvalidAuthToken.
func (a *authService) GetUserFromAuthToken(ctx context.Context, authToken string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	parsed, err := a.tokens.Parse(token.KindAuth, authToken)
	if err != nil {
		log.Err(err).Str("func", "authService.GetUserFromAuthToken").Msg("auth token is unreadable")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrUnreadableToken, err)
	}
	if a.tokens.IsExpired(parsed) {
		return models.Credential{}, ErrTokenIsExpired
	}

	cred, found, err := a.findCredential(ctx, models.FieldAuthToken, authToken)
	if err != nil {
		log.Err(err).Str("func", "authService.GetUserFromAuthToken").Msg("credential lookup by auth token failed")
		return models.Credential{}, err
	}
	if !found {
		return models.Credential{}, ErrInvalidAuthToken
	}

	return cred, nil
}

// GetUserFromRecoveryToken exchanges a recovery token for a fresh pair of
// tokens. The old recovery token stops matching once the new pair is saved.
func (a *authService) GetUserFromRecoveryToken(ctx context.Context, recoveryToken string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if recoveryToken == "" {
		return models.Credential{}, ErrInvalidRecoveryToken
	}

	cred, found, err := a.findCredential(ctx, models.FieldRecoveryToken, recoveryToken)
	if err != nil {
		log.Err(err).Str("func", "authService.GetUserFromRecoveryToken").Msg("credential lookup by recovery token failed")
		return models.Credential{}, err
	}
	if !found {
		return models.Credential{}, ErrInvalidRecoveryToken
	}

	if cred.AuthToken, err = a.issue(token.KindAuth, cred); err != nil {
		return models.Credential{}, err
	}
	if cred.RecoveryToken, err = a.issue(token.KindRecovery, cred); err != nil {
		return models.Credential{}, err
	}

	if err = a.save(ctx, cred); err != nil {
		log.Err(err).Str("func", "authService.GetUserFromRecoveryToken").Msg("saving rotated tokens failed")
		return models.Credential{}, err
	}

	log.Info().Str("func", "authService.GetUserFromRecoveryToken").Int64("owner_id", cred.OwnerID).Msg("tokens rotated")
	return cred, nil
}

func (a *authService) ReceiveUserData(ctx context.Context, ownerID int64, data map[string]any) error {
	cred, err := a.GetUserByID(ctx, ownerID)
	if err != nil {
		return err
	}

	cred.UserData = maps.Clone(data)
	if cred.UserData == nil {
		cred.UserData = map[string]any{}
	}

	if err = a.save(ctx, cred); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.ReceiveUserData").Int64("owner_id", ownerID).Msg("saving user data failed")
		return err
	}

	return nil
}

func (a *authService) SendUserData(ctx context.Context, ownerID int64) (map[string]any, error) {
	cred, err := a.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return cred.UserData, nil
}

func (a *authService) GetUserByID(ctx context.Context, ownerID int64) (models.Credential, error) {
	cred, found, err := a.findCredential(ctx, models.FieldOwnerID, ownerID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.GetUserByID").Int64("owner_id", ownerID).Msg("credential lookup by owner id failed")
		return models.Credential{}, err
	}
	if !found {
		return models.Credential{}, ErrNoSuchUser
	}
	return cred, nil
}

// RequestPasswordReset stores a new validation code. The code is completed
// through UserSignIn with Validation set, or consumed by ValidateAccount.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	cred, found, err := a.findCredential(ctx, models.FieldEmailAddress, email)
	if err != nil {
		log.Err(err).Str("func", "authService.RequestPasswordReset").Msg("credential lookup by email failed")
		return err
	}
	if !found {
		return ErrNoSuchUser
	}

	code := utils.NewKey()
	cred.Validation = &code
	if err = a.save(ctx, cred); err != nil {
		log.Err(err).Str("func", "authService.RequestPasswordReset").Msg("saving validation code failed")
		return err
	}

	if err = a.notifier.NotifyReset(ctx, cred, code); err != nil {
		log.Err(err).Str("func", "authService.RequestPasswordReset").Int64("owner_id", cred.OwnerID).Msg("reset notification failed")
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return nil
}

// findCredential returns the first credential whose field equals value.
func (a *authService) findCredential(ctx context.Context, field string, value any) (models.Credential, bool, error) {
	q, err := query.NewBuilder().
		Select().
		From(models.CredentialType).
		Where(field, query.EQ, value).
		Limit(1).
		Build()
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	objects, err := a.dao.Query(ctx, q)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if len(objects) == 0 {
		return models.Credential{}, false, nil
	}

	cred, err := models.CredentialFromObject(objects[0])
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return cred, true, nil
}

func (a *authService) save(ctx context.Context, cred models.Credential) error {
	err := a.dao.Save(ctx, cred.ToObject())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrUniqueViolation):
		return fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func (a *authService) issue(kind token.Kind, cred models.Credential) (string, error) {
	raw, err := a.tokens.Issue(kind, cred)
	if err != nil {
		return "", fmt.Errorf("%w: issuing %s token: %w", ErrInternal, kind, err)
	}
	return raw, nil
}

// decryptAndHash turns a transport-encrypted password into a storable hash.
func (a *authService) decryptAndHash(ciphertext string) (string, error) {
	password, err := a.keys.Decrypt(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUndecryptablePassword, err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return hash, nil
}
