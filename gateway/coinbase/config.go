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
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
)

const namedLogger = "coinbase"

// Config represents the configuration of the payment gateway client.
type Config struct {
	Level         encoding.LogLevel `long:"log-level"`
	APIURL        string            `long:"api-url" description:"Base URL of the commerce API"`
	APIKey        string            `long:"api-key"`
	APIVersion    string            `long:"api-version"`
	WebhookSecret string            `long:"webhook-secret" description:"Shared secret used to sign webhook deliveries"`
	Timeout       encoding.Duration `long:"timeout"`
	Retries       uint64            `long:"retries" description:"Number of times a failed charge creation is retried"`
	RedirectURL   string            `long:"redirect-url"`
	CancelURL     string            `long:"cancel-url"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		APIURL:     "https://api.commerce.coinbase.com",
		APIVersion: "2018-03-22",
		Timeout:    encoding.Duration{Duration: 10 * time.Second},
		Retries:    3,
	}
}
