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
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"code.refchain.io/node/internal/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namedLogger = "metrics"

// Server exposes the prometheus registry over http.
type Server struct {
	log *logging.Logger
	cfg Config
	srv *http.Server
}

func NewServer(log *logging.Logger, cfg Config) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	return &Server{
		log: log,
		cfg: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  cfg.Timeout.Get(),
			WriteTimeout: cfg.Timeout.Get(),
		},
	}
}

// Start serves metrics until the context is cancelled. It returns
// immediately when metrics are disabled.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	if err := Setup(); err != nil {
		return fmt.Errorf("could not set up metrics: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = s.srv.Close()
	}()

	s.log.Info("starting metrics server",
		logging.Int("port", s.cfg.Port),
		logging.String("path", s.cfg.Path))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
