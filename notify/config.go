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
package notify

import (
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
)

const namedLogger = "notify"

type Config struct {
	Level           encoding.LogLevel `long:"log-level"`
	Workers         int               `long:"workers" description:"Number of goroutines delivering notifications"`
	QueueSize       int               `long:"queue-size"`
	MaxAttempts     uint64            `long:"max-attempts" description:"Delivery attempts before a notification is dropped"`
	InitialInterval encoding.Duration `long:"initial-interval"`
	MaxInterval     encoding.Duration `long:"max-interval"`
	SendTimeout     encoding.Duration `long:"send-timeout"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		Workers:         4,
		QueueSize:       1024,
		MaxAttempts:     5,
		InitialInterval: encoding.Duration{Duration: 500 * time.Millisecond},
		MaxInterval:     encoding.Duration{Duration: 30 * time.Second},
		SendTimeout:     encoding.Duration{Duration: 10 * time.Second},
	}
}
