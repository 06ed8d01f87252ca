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
	"testing"

	"code.refchain.io/node/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesDefaultConfiguration(t *testing.T) {
	home := t.TempDir()
	cmd := &InitCmd{HomeFlag: config.HomeFlag{Home: home}}
	require.NoError(t, cmd.Execute(nil))

	cfg, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig().API.Port, cfg.API.Port)

	// a second run needs --force
	assert.Error(t, cmd.Execute(nil))
	cmd.Force = true
	assert.NoError(t, cmd.Execute(nil))
}
