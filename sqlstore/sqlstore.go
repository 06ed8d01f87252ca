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
package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io"
	"path/filepath"

	"code.refchain.io/node/internal/logging"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var EmbedMigrations embed.FS

const (
	migrationsDir   = "migrations"
	applicationName = "refchain node"
)

// MigrateToLatestSchema applies every pending migration.
func MigrateToLatestSchema(log *logging.Logger, config Config) error {
	goose.SetBaseFS(EmbedMigrations)
	goose.SetLogger(log.Named("db migration").GooseLogger())

	poolConfig, err := config.ConnectionConfig.GetPoolConfig()
	if err != nil {
		return fmt.Errorf("failed to get pool config: %w", err)
	}

	db := stdlib.OpenDB(*poolConfig.ConnConfig)
	defer db.Close()

	if config.WipeOnStartup {
		currentVersion, err := goose.GetDBVersion(db)
		if err != nil {
			return err
		}
		if currentVersion > 0 {
			if err := goose.DownTo(db, migrationsDir, 0); err != nil {
				return fmt.Errorf("error clearing sql schema: %w", err)
			}
		}
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("error migrating sql schema: %w", err)
	}
	return nil
}

func (conf ConnectionConfig) GetPoolConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(conf.GetConnectionString())
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	cfg.ConnConfig.ConnectTimeout = conf.ConnectTimeout.Duration
	cfg.MaxConnLifetime = conf.MaxConnLifetime.Duration
	cfg.MaxConnLifetimeJitter = conf.MaxConnLifetimeJitter.Duration
	cfg.MaxConns = int32(conf.MaxConnPoolSize)
	cfg.MinConns = conf.MinConnPoolSize
	registerNumericType(cfg)
	return cfg, nil
}

func registerNumericType(poolConfig *pgxpool.Config) {
	// Cause postgres numeric types to be loaded as shopspring decimals and vice-versa
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		conn.ConnInfo().RegisterDataType(pgtype.DataType{
			Value: &shopspring.Numeric{},
			Name:  "numeric",
			OID:   pgtype.NumericOID,
		})
		return nil
	}
}

// StartEmbeddedPostgres runs a postgres instance under runtimeDir using the
// credentials of the connection configuration.
func StartEmbeddedPostgres(log *logging.Logger, config Config, runtimeDir string, postgresLog io.Writer) (*embeddedpostgres.EmbeddedPostgres, error) {
	log = log.Named("embedded-postgres")
	log.SetLevel(config.Level.Get())

	conf := config.ConnectionConfig
	dbConfig := embeddedpostgres.DefaultConfig().
		Username(conf.Username).
		Password(conf.Password).
		Database(conf.Database).
		Port(uint32(conf.Port)).
		RuntimePath(filepath.Join(runtimeDir, "runtime")).
		BinariesPath(filepath.Join(runtimeDir, "runtime")).
		DataPath(filepath.Join(runtimeDir, "data")).
		Logger(postgresLog)

	db := embeddedpostgres.NewDatabase(dbConfig)
	if err := db.Start(); err != nil {
		return nil, fmt.Errorf("failed to start embedded postgres: %w", err)
	}

	log.Info("embedded postgres started",
		logging.Int("port", conf.Port),
		logging.String("runtime-dir", runtimeDir))
	return db, nil
}
