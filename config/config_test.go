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

package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"code.refchain.io/node/config"
	"code.refchain.io/node/internal/logging"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	home := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.API.Port = 4000
	cfg.Referral.MaxMapDepth = 12
	cfg.Logging.Level.Level = logging.DebugLevel

	require.NoError(t, config.Write(home, cfg, false))

	loaded, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, 4000, loaded.API.Port)
	assert.Equal(t, 12, loaded.Referral.MaxMapDepth)
	assert.Equal(t, logging.DebugLevel, loaded.Logging.Level.Level)
	assert.Equal(t, cfg.SQLStore.ConnectionConfig, loaded.SQLStore.ConnectionConfig)
	assert.Equal(t, cfg.API.MaxWebhookBodySize.Get(), loaded.API.MaxWebhookBodySize.Get())
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, config.Write(home, config.NewDefaultConfig(), false))
	assert.ErrorIs(t, config.Write(home, config.NewDefaultConfig(), false), config.ErrConfigExists)
	assert.NoError(t, config.Write(home, config.NewDefaultConfig(), true))
}

func TestReadKeepsDefaultsForMissingKeys(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(home), []byte("[api]\n  Port = 9999\n"), 0o600))

	cfg, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.API.Port)
	assert.Equal(t, config.NewDefaultConfig().Notify, cfg.Notify)
}

func TestReadMissingFile(t *testing.T) {
	_, err := config.Read(t.TempDir())
	assert.Error(t, err)
}

func TestWatcherNotifiesListeners(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := t.TempDir()
	cfg := config.NewDefaultConfig()
	require.NoError(t, config.Write(home, cfg, false))

	w, err := config.NewWatcher(ctx, logging.NewTestLogger(), home)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.Port, w.Get().API.Port)

	updates := make(chan config.Config, 4)
	w.OnConfigUpdate(func(c config.Config) { updates <- c })

	cfg.API.RateLimit = 99
	f, err := os.OpenFile(config.Path(home), os.O_WRONLY|os.O_TRUNC, 0o600)
	require.NoError(t, err)
	require.NoError(t, toml.NewEncoder(f).Encode(cfg))
	require.NoError(t, f.Close())

	// truncating the file may surface as an intermediate update
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case got := <-updates:
			done = got.API.RateLimit == 99.0
		case <-timeout:
			t.Fatal("configuration update not received")
		}
	}
	assert.Equal(t, 99.0, w.Get().API.RateLimit)
}

func TestWatcherAppliesAdjustments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := t.TempDir()
	require.NoError(t, config.Write(home, config.NewDefaultConfig(), false))

	w, err := config.NewWatcher(ctx, logging.NewTestLogger(), home, config.Use(func(c *config.Config) error {
		c.API.Port = 1234
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 1234, w.Get().API.Port)
}
