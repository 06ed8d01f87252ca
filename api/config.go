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
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"

	"github.com/inhies/go-bytesize"
)

const namedLogger = "api"

// Config represents the configuration of the http api.
type Config struct {
	Level           encoding.LogLevel `long:"log-level"`
	IP              string            `long:"ip" description:"Bind to address <ip>"`
	Port            int               `long:"port" description:"Listen for connection on port <port>"`
	ReadTimeout     encoding.Duration `long:"read-timeout"`
	WriteTimeout    encoding.Duration `long:"write-timeout"`
	ShutdownTimeout encoding.Duration `long:"shutdown-timeout"`

	MaxWebhookBodySize encoding.ByteSize `long:"max-webhook-body-size" description:"Largest webhook body accepted, e.g. 512KB"`
	// RateLimit is the number of admin requests per second allowed for one
	// client. The webhook is not limited.
	RateLimit float64    `long:"rate-limit"`
	CORS      CORSConfig `group:"CORS" namespace:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `long:"allowed-origins" description:"Allowed origins for CORS"`
	MaxAge         int      `long:"max-age" description:"Max age (in seconds) for preflight cache"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:              encoding.LogLevel{Level: logging.InfoLevel},
		IP:                 "0.0.0.0",
		Port:               3008,
		ReadTimeout:        encoding.Duration{Duration: 10 * time.Second},
		WriteTimeout:       encoding.Duration{Duration: 30 * time.Second},
		ShutdownTimeout:    encoding.Duration{Duration: 10 * time.Second},
		MaxWebhookBodySize: encoding.ByteSize{ByteSize: bytesize.MB},
		RateLimit:          20,
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
	}
}
