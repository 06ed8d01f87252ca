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
package referral

import (
	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
)

const namedLogger = "referral"

type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// MaxAncestryDepth bounds the number of referrers followed upward from a
	// purchaser.
	MaxAncestryDepth int `long:"max-ancestry-depth"`
	DefaultMapDepth  int `long:"default-map-depth" description:"Number of levels returned by a referral map after the start level"`
	MaxMapDepth      int `long:"max-map-depth"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		MaxAncestryDepth: 256,
		DefaultMapDepth:  5,
		MaxMapDepth:      50,
	}
}
