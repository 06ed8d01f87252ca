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

package main

import (
	"context"
	"fmt"

	"code.refchain.io/node/config"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/sqlstore"

	"github.com/jessevdk/go-flags"
)

type MigrateCmd struct {
	config.HomeFlag
	config.Config
}

var migrateCmd MigrateCmd

func (cmd *MigrateCmd) Execute(_ []string) error {
	cfg, err := loadConfig(cmd.Home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	if err := sqlstore.MigrateToLatestSchema(log, cfg.SQLStore); err != nil {
		return fmt.Errorf("failed to migrate to latest schema: %w", err)
	}
	log.Info("database schema is up to date")
	return nil
}

func Migrate(ctx context.Context, parser *flags.Parser) error {
	migrateCmd = MigrateCmd{}

	_, err := parser.AddCommand("migrate", "Apply database migrations", "Apply every pending database migration and exit", &migrateCmd)
	return err
}

// loadConfig reads the configuration under home and applies command line
// overrides on top of it.
func loadConfig(home string) (config.Config, error) {
	cfg, err := config.Read(home)
	if err != nil {
		return cfg, err
	}
	return cfg, parseFlags(&cfg)
}

// parseFlags re-parses the command line into cfg so flags take precedence
// over the configuration file.
func parseFlags(cfg *config.Config) error {
	_, err := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown).Parse()
	return err
}
