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
	"fmt"
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
)

const namedLogger = "sqlstore"

type Config struct {
	Level            encoding.LogLevel `long:"log-level"`
	ConnectionConfig ConnectionConfig  `group:"ConnectionConfig" namespace:"ConnectionConfig"`
	WipeOnStartup    encoding.Bool     `long:"wipe-on-startup" description:"Remove all data and recreate the schema when the node starts"`
	UseEmbedded      encoding.Bool     `long:"use-embedded" description:"Run an embedded postgres instance alongside the node"`
	Retry            RetryConfig       `group:"Retry" namespace:"Retry"`
}

type ConnectionConfig struct {
	Host                  string            `long:"host"`
	Port                  int               `long:"port"`
	Username              string            `long:"username"`
	Password              string            `long:"password"`
	Database              string            `long:"database"`
	SocketDir             string            `long:"socket-dir" description:"location of postgres UNIX socket directory (used if host is empty string)"`
	MaxConnPoolSize       int               `long:"max-conn-pool-size" description:"configures the maximum number of connections the connection pool will open"`
	MinConnPoolSize       int32             `long:"min-conn-pool-size" description:"configures the minimum number of connections the connection pool will hold"`
	MaxConnLifetime       encoding.Duration `long:"max-conn-lifetime"`
	MaxConnLifetimeJitter encoding.Duration `long:"max-conn-lifetime-jitter"`
	ConnectTimeout        encoding.Duration `long:"connect-timeout"`
}

// RetryConfig controls how connection failures outside of a transaction are
// retried before being reported as transient errors.
type RetryConfig struct {
	MaxAttempts     uint64            `long:"max-attempts"`
	InitialInterval encoding.Duration `long:"initial-interval"`
	MaxInterval     encoding.Duration `long:"max-interval"`
}

func (conf ConnectionConfig) GetConnectionString() string {
	host := conf.Host
	if host == "" {
		host = conf.SocketDir
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Username,
		conf.Password,
		host,
		conf.Port,
		conf.Database)
}

func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		ConnectionConfig: ConnectionConfig{
			Host:                  "localhost",
			Port:                  5432,
			Username:              "refchain",
			Password:              "refchain",
			Database:              "refchain",
			SocketDir:             "/tmp",
			MaxConnPoolSize:       20,
			MinConnPoolSize:       1,
			MaxConnLifetime:       encoding.Duration{Duration: time.Minute * 30},
			MaxConnLifetimeJitter: encoding.Duration{Duration: time.Minute * 5},
			ConnectTimeout:        encoding.Duration{Duration: time.Second * 10},
		},
		WipeOnStartup: false,
		UseEmbedded:   false,
		Retry: RetryConfig{
			MaxAttempts:     5,
			InitialInterval: encoding.Duration{Duration: 100 * time.Millisecond},
			MaxInterval:     encoding.Duration{Duration: 2 * time.Second},
		},
	}
}
