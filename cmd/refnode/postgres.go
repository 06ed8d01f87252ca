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
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"code.refchain.io/node/config"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/sqlstore"

	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	postgresDir     = "postgres"
	postgresLogFile = "postgres.log"
)

type PostgresCmd struct {
	Run PostgresRunCmd `command:"run"`
}

var postgresCmd PostgresCmd

func Postgres(ctx context.Context, parser *flags.Parser) error {
	postgresCmd = PostgresCmd{
		Run: PostgresRunCmd{},
	}

	_, err := parser.AddCommand("postgres", "Embedded Postgres", "Embedded Postgres", &postgresCmd)
	return err
}

type PostgresRunCmd struct {
	config.HomeFlag
	config.Config
}

func (cmd *PostgresRunCmd) Execute(_ []string) error {
	cfg, err := loadConfig(cmd.Home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	log.Info("Launching Postgres")

	pgLog := postgresLogger(cmd.Home)
	defer pgLog.Close()

	db, err := sqlstore.StartEmbeddedPostgres(log, cfg.SQLStore, filepath.Join(cmd.Home, postgresDir), pgLog)
	if err != nil {
		return err
	}

	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)

	sig := <-gracefulStop
	log.Info("Caught signal", logging.String("name", fmt.Sprintf("%+v", sig)))
	return db.Stop()
}

// postgresLogger returns a rotated file receiving the embedded postgres
// output.
func postgresLogger(home string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(home, postgresDir, postgresLogFile),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}
