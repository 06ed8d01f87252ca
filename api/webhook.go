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
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"

	"github.com/julienschmidt/httprouter"
)

type webhookResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

// Webhook receives payment gateway events. Any failure, a panic included,
// is answered with a 400 so the gateway does not keep redelivering an event
// that cannot be processed.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("panic while processing webhook", logging.String("panic", fmt.Sprint(rec)))
			writeSuccess(w, webhookResponse{StatusCode: http.StatusBadRequest, Message: "internal error"}, http.StatusBadRequest)
		}
	}()

	if err := s.webhook(r); err != nil {
		s.log.Warn("webhook rejected", logging.Error(err))
		writeSuccess(w, webhookResponse{StatusCode: http.StatusBadRequest, Message: err.Error()}, http.StatusBadRequest)
		return
	}
	writeSuccess(w, webhookResponse{StatusCode: http.StatusOK}, http.StatusOK)
}

func (s *Server) webhook(r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxWebhookBodySize.Get()+1))
	if err != nil {
		return fmt.Errorf("could not read body: %w", err)
	}
	if int64(len(body)) > s.cfg.MaxWebhookBodySize.Get() {
		return errors.New("body too large")
	}

	evt, err := s.svcs.Webhook.Verify(body, r.Header.Get(coinbase.SignatureHeader))
	if err != nil {
		return err
	}
	_, err = s.svcs.Events.Process(r.Context(), evt)
	return err
}
