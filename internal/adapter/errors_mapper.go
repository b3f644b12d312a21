// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case resp.StatusCode() == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case resp.StatusCode() == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrServer, body)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}
