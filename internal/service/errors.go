// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Error categories. Transports map them to status codes.
var (
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrUserAlreadyExists  = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrOwnerIDUnavailable = fmt.Errorf("%w: owner id is taken by concurrent sign-ups, try again", ErrConflict)

	ErrUserDoesNotExist = fmt.Errorf("%w: user does not exist", ErrUnauthorized)
	ErrWrongPassword    = fmt.Errorf("%w: wrong password", ErrUnauthorized)
	ErrTokenIsExpired   = fmt.Errorf("%w: token is expired", ErrUnauthorized)

	ErrInvalidDataProvided   = fmt.Errorf("%w: invalid data provided", ErrBadRequest)
	ErrUndecryptablePassword = fmt.Errorf("%w: password could not be decrypted", ErrBadRequest)
	ErrInvalidAuthToken      = fmt.Errorf("%w: invalid auth token", ErrBadRequest)
	ErrInvalidRecoveryToken  = fmt.Errorf("%w: invalid recovery token", ErrBadRequest)
	ErrNoSuchUser            = fmt.Errorf("%w: no such user", ErrBadRequest)

	// ErrUnreadableToken is returned when a token can not be verified with
	// the server key.
	ErrUnreadableToken = fmt.Errorf("%w: token could not be parsed", ErrInternal)

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
