// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// CredentialType is the object type credentials are stored under.
const CredentialType = "credential"

// ValidationConsumed is written into Credential.Validation once a reset code
// has been used. It never matches a code supplied by a client.
const ValidationConsumed = "1"

// Field names of a credential object. Queries against credentials use these.
const (
	FieldOwnerID       = "owner_id"
	FieldEmailAddress  = "email_address"
	FieldPassword      = "password"
	FieldValidation    = "validation"
	FieldAuthToken     = "auth_token"
	FieldRecoveryToken = "recovery_token"
	FieldUserData      = "user_data"
)

// ErrNotACredential is returned by [CredentialFromObject] for objects of a
// different type.
var ErrNotACredential = errors.New("object is not a credential")

// Credential is the persisted identity record.
//
// Password holds the RSA ciphertext sent by the client until the service
// replaces it with a bcrypt hash; a persisted credential always carries the
// hash.
type Credential struct {
	// Key is the storage key of the underlying object.
	Key string

	OwnerID       int64
	EmailAddress  string
	Password      string
	Validation    *string
	AuthToken     string
	RecoveryToken string

	// UserData is owned by the client application and is replaced wholesale
	// on every write.
	UserData map[string]any
}

// HasPendingValidation reports whether the stored validation code equals
// code and has not been consumed yet.
func (c Credential) HasPendingValidation(code string) bool {
	return c.Validation != nil &&
		*c.Validation != ValidationConsumed &&
		code != "" &&
		*c.Validation == code
}

// ToObject converts c to its storage representation.
func (c Credential) ToObject() Object {
	var validation any
	if c.Validation != nil {
		validation = *c.Validation
	}

	userData := cloneMap(c.UserData)
	if userData == nil {
		userData = map[string]any{}
	}

	return Object{
		Key:  c.Key,
		Type: CredentialType,
		Fields: map[string]any{
			FieldOwnerID:       c.OwnerID,
			FieldEmailAddress:  c.EmailAddress,
			FieldPassword:      c.Password,
			FieldValidation:    validation,
			FieldAuthToken:     c.AuthToken,
			FieldRecoveryToken: c.RecoveryToken,
			FieldUserData:      userData,
		},
	}
}

// CredentialFromObject converts a stored object back into a Credential.
func CredentialFromObject(o Object) (Credential, error) {
	if o.Type != CredentialType {
		return Credential{}, fmt.Errorf("%w: %q", ErrNotACredential, o.Type)
	}

	c := Credential{Key: o.Key}

	var err error
	if c.OwnerID, err = toInt64(o.Fields[FieldOwnerID]); err != nil {
		return Credential{}, fmt.Errorf("field %s: %w", FieldOwnerID, err)
	}

	strFields := []struct {
		name string
		dst  *string
	}{
		{FieldEmailAddress, &c.EmailAddress},
		{FieldPassword, &c.Password},
		{FieldAuthToken, &c.AuthToken},
		{FieldRecoveryToken, &c.RecoveryToken},
	}
	for _, f := range strFields {
		if *f.dst, err = toString(o.Fields[f.name]); err != nil {
			return Credential{}, fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	if v, ok := o.Fields[FieldValidation]; ok && v != nil {
		validation, err := toString(v)
		if err != nil {
			return Credential{}, fmt.Errorf("field %s: %w", FieldValidation, err)
		}
		c.Validation = &validation
	}

	switch data := o.Fields[FieldUserData].(type) {
	case map[string]any:
		c.UserData = cloneMap(data)
	case nil:
		c.UserData = map[string]any{}
	default:
		return Credential{}, fmt.Errorf("field %s: unexpected value of type %T", FieldUserData, data)
	}

	return c, nil
}
