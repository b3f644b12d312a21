// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import "errors"

var (
	// ErrAuthentication is returned by Parse for any token that was not
	// issued by this codec for the requested kind: bad signature, foreign
	// key, malformed input, unexpected signing method or wrong kind.
	ErrAuthentication = errors.New("token authentication failed")

	// ErrInvalidCodecParams is returned by NewCodec for a missing key,
	// clock or issuer, or a non-positive lifetime.
	ErrInvalidCodecParams = errors.New("invalid token codec parameters")
)
