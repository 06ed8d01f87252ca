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
package customers

import (
	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
)

const namedLogger = "customers"

type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// ReferralCodeCacheSize is the number of referral code lookups kept in
	// memory.
	ReferralCodeCacheSize int `long:"referral-code-cache-size"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:                 encoding.LogLevel{Level: logging.InfoLevel},
		ReferralCodeCacheSize: 4096,
	}
}
