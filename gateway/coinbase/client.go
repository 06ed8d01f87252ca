// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package coinbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"code.refchain.io/node/internal/logging"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const maxErrorBody = 4096

// Client talks to the commerce API.
type Client struct {
	log  *logging.Logger
	cfg  Config
	http *http.Client
}

func NewClient(log *logging.Logger, cfg Config) *Client {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Client{
		log:  log,
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout.Get()},
	}
}

// Verify checks a webhook delivery against the configured secret.
func (c *Client) Verify(body []byte, signature string) (Event, error) {
	return Verify(body, signature, c.cfg.WebhookSecret)
}

type chargeResponse struct {
	Data ChargeResource `json:"data"`
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("commerce api returned %d: %s", e.Status, e.Body)
}

// CreateCharge creates a fixed price charge. Server side failures and
// network errors are retried with exponential backoff; client errors are
// returned straight away.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (ChargeResource, error) {
	if len(req.PricingType) == 0 {
		req.PricingType = "fixed_price"
	}
	if len(req.RedirectURL) == 0 {
		req.RedirectURL = c.cfg.RedirectURL
	}
	if len(req.CancelURL) == 0 {
		req.CancelURL = c.cfg.CancelURL
	}
	body, err := json.Marshal(req)
	if err != nil {
		return ChargeResource{}, errors.Wrap(err, "could not encode charge request")
	}

	var charge ChargeResource
	op := func() error {
		res, err := c.post(ctx, "/charges", body)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			c.log.Debug("charge creation failed, retrying", logging.Error(err))
			return err
		}
		charge = res.Data
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.Retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return ChargeResource{}, errors.Wrap(err, "could not create charge")
	}
	c.log.Debug("charge created", logging.ChargeCode(charge.Code))
	return charge, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*chargeResponse, error) {
	url := strings.TrimRight(c.cfg.APIURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CC-Api-Key", c.cfg.APIKey)
	req.Header.Set("X-CC-Version", c.cfg.APIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &apiError{Status: resp.StatusCode, Body: string(msg)}
	}

	out := &chargeResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "could not decode charge"))
	}
	return out, nil
}
