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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"code.refchain.io/node/api"
	"code.refchain.io/node/commission"
	"code.refchain.io/node/customers"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"
	"code.refchain.io/node/notify"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/purchases"
	"code.refchain.io/node/referral"
	"code.refchain.io/node/sqlstore"

	"github.com/BurntSushi/toml"
)

var ErrConfigExists = errors.New("configuration file already exists")

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging" namespace:"logging"`
	SQLStore   sqlstore.Config   `group:"Sqlstore" namespace:"sqlstore"`
	API        api.Config        `group:"API" namespace:"api"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`
	Referral   referral.Config   `group:"Referral" namespace:"referral"`
	Commission commission.Config `group:"Commission" namespace:"commission"`
	Payments   payments.Config   `group:"Payments" namespace:"payments"`
	Coinbase   coinbase.Config   `group:"Coinbase" namespace:"coinbase"`
	Notify     notify.Config     `group:"Notify" namespace:"notify"`
	Customers  customers.Config  `group:"Customers" namespace:"customers"`
	Purchases  purchases.Config  `group:"Purchases" namespace:"purchases"`
}

// NewDefaultConfig returns a set of default configs for all packages.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		SQLStore:   sqlstore.NewDefaultConfig(),
		API:        api.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
		Referral:   referral.NewDefaultConfig(),
		Commission: commission.NewDefaultConfig(),
		Payments:   payments.NewDefaultConfig(),
		Coinbase:   coinbase.NewDefaultConfig(),
		Notify:     notify.NewDefaultConfig(),
		Customers:  customers.NewDefaultConfig(),
		Purchases:  purchases.NewDefaultConfig(),
	}
}

// Path returns the location of the configuration file under home.
func Path(home string) string {
	return filepath.Join(home, configFileName)
}

// Read loads the configuration file found under home on top of the defaults.
func Read(home string) (Config, error) {
	cfg := NewDefaultConfig()
	buf, err := os.ReadFile(Path(home))
	if err != nil {
		return cfg, fmt.Errorf("couldn't read configuration file: %w", err)
	}
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return cfg, fmt.Errorf("couldn't decode configuration file: %w", err)
	}
	return cfg, nil
}

// Write saves cfg as the configuration file under home. An existing file is
// only replaced when overwrite is set.
func Write(home string, cfg Config, overwrite bool) error {
	path := Path(home)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return ErrConfigExists
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return fmt.Errorf("couldn't create home directory: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("couldn't encode configuration: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// Empty is used when a command or sub-command receives no argument.
type Empty struct{}

type HomeFlag struct {
	Home string `long:"home" description:"Path to the node home directory" default:"./refnode"`
}
