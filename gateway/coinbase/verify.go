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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex encoded HMAC of the raw webhook body.
const SignatureHeader = "X-Cc-Webhook-Signature"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

type envelope struct {
	Event *Event `json:"event"`
}

// Sign returns the signature the gateway would send for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature of a webhook body and decodes the event it
// carries. Both the wrapped {"event": {...}} delivery and a bare event are
// accepted.
func Verify(body []byte, signature, secret string) (Event, error) {
	if len(secret) == 0 || len(signature) == 0 {
		return Event{}, ErrInvalidSignature
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return Event{}, ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return Event{}, ErrInvalidSignature
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	evt := env.Event
	if evt == nil {
		evt = &Event{}
		if err := json.Unmarshal(body, evt); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}
	if len(evt.Type) == 0 {
		return Event{}, fmt.Errorf("%w: missing event type", ErrMalformedEvent)
	}
	return *evt, nil
}
