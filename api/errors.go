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
	"encoding/json"
	"errors"
	"net/http"

	"code.refchain.io/node/entities"
)

var (
	ErrInvalidRequest = newError(http.StatusBadRequest, "invalid request")
	ErrInternal       = newError(http.StatusInternalServerError, "internal error")
)

// HTTPError is the body of every failed response.
type HTTPError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

func (e HTTPError) Error() string {
	return e.Message
}

func newError(status int, msg string) HTTPError {
	return HTTPError{
		StatusCode: status,
		Message:    msg,
	}
}

// toHTTPError maps domain errors onto status codes. Unknown errors are not
// echoed back to the client.
func toHTTPError(err error) HTTPError {
	var herr HTTPError
	switch {
	case errors.As(err, &herr):
		return herr
	case errors.Is(err, entities.ErrNotFound):
		return newError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidArgument):
		return newError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrConflict), errors.Is(err, entities.ErrAlreadySettled):
		return newError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrTransientInfra):
		return newError(http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		return ErrInternal
	}
}

func writeError(w http.ResponseWriter, e HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	buf, _ := json.Marshal(e)
	_, _ = w.Write(buf)
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	_, _ = w.Write(buf)
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return newError(http.StatusBadRequest, "invalid request: "+err.Error())
	}
	return nil
}
