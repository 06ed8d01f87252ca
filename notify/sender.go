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
package notify

import (
	"context"
	"time"

	"code.refchain.io/node/internal/logging"

	"github.com/cenkalti/backoff/v4"
)

type Kind string

const (
	KindPurchaseConfirmed Kind = "purchase-confirmed"
	KindCommissionEarned  Kind = "commission-earned"
)

type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/sender_mock.go -package mocks code.refchain.io/node/notify Sender
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *logging.Logger
}

func NewLogSender(log *logging.Logger) *LogSender {
	return &LogSender{log: log.Named("sender")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("notification",
		logging.String("kind", string(msg.Kind)),
		logging.String("to", msg.To),
		logging.String("subject", msg.Subject))
	return nil
}

// RetryingSender retries a failed delivery with exponential backoff up to a
// fixed number of attempts.
type RetryingSender struct {
	log    *logging.Logger
	sender Sender

	attempts        uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

func NewRetryingSender(log *logging.Logger, cfg Config, sender Sender) *RetryingSender {
	return &RetryingSender{
		log:             log,
		sender:          sender,
		attempts:        cfg.MaxAttempts,
		initialInterval: cfg.InitialInterval.Get(),
		maxInterval:     cfg.MaxInterval.Get(),
	}
}

func (s *RetryingSender) Send(ctx context.Context, msg Message) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.initialInterval
	eb.MaxInterval = s.maxInterval
	eb.MaxElapsedTime = 0

	retries := uint64(0)
	if s.attempts > 1 {
		retries = s.attempts - 1
	}
	b := backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx)

	return backoff.RetryNotify(
		func() error { return s.sender.Send(ctx, msg) },
		b,
		func(err error, next time.Duration) {
			s.log.Debug("notification delivery failed",
				logging.String("to", msg.To),
				logging.Duration("retry-in", next),
				logging.Error(err))
		},
	)
}
