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

package logging

// Config contains the configurable items for this package.
type Config struct {
	Environment    string    `long:"env" choice:"dev" choice:"prod" description:"Logging environment, dev is human readable"`
	Level          TextLevel `long:"level" description:"Root log level"`
	File           string    `long:"file" description:"Optional path of a rotated log file"`
	FileMaxSizeMB  int       `long:"file-max-size-mb"`
	FileMaxBackups int       `long:"file-max-backups"`
	FileMaxAgeDays int       `long:"file-max-age-days"`
}

// TextLevel wraps a Level so it can be read from toml and flags.
type TextLevel struct {
	Level
}

func (l *TextLevel) UnmarshalText(text []byte) error {
	var err error
	l.Level, err = ParseLevel(string(text))
	return err
}

func (l *TextLevel) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

func (l TextLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment:    "prod",
		Level:          TextLevel{Level: InfoLevel},
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
	}
}
