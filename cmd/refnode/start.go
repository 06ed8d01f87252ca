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
	"os/signal"
	"syscall"

	"code.refchain.io/node/config"
	"code.refchain.io/node/internal/logging"

	"github.com/jessevdk/go-flags"
)

type StartCmd struct {
	config.HomeFlag
	config.Config
}

var startCmd StartCmd

func (cmd *StartCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configWatcher, err := config.NewWatcher(ctx, log, cmd.Home, config.Use(parseFlags))
	if err != nil {
		return err
	}

	n := &node{
		home:          cmd.Home,
		configWatcher: configWatcher,
	}
	return n.Run(ctx)
}

func Start(ctx context.Context, parser *flags.Parser) error {
	startCmd = StartCmd{}

	short := "Start a refchain node"
	long := "Serve the payment webhook and the admin API until interrupted"

	_, err := parser.AddCommand("start", short, long, &startCmd)
	return err
}
