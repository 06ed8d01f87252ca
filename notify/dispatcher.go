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
	"fmt"
	"sync"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"
)

// CustomerReader resolves the address of a customer.
type CustomerReader interface {
	GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
}

// Dispatcher turns settlements into messages delivered by a pool of workers.
// Enqueueing never blocks: when the queue is full the settlement is dropped
// and logged.
type Dispatcher struct {
	log       *logging.Logger
	cfg       Config
	sender    Sender
	customers CustomerReader

	queue chan *commission.Result
	wg    sync.WaitGroup
}

func NewDispatcher(log *logging.Logger, cfg Config, sender Sender, customers CustomerReader) *Dispatcher {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		log:       log,
		cfg:       cfg,
		sender:    NewRetryingSender(log, cfg, sender),
		customers: customers,
		queue:     make(chan *commission.Result, size),
	}
}

func (d *Dispatcher) ReloadConf(cfg Config) {
	if d.log.GetLevel() != cfg.Level.Get() {
		d.log.Info("updating log level",
			logging.String("old", d.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		d.log.SetLevel(cfg.Level.Get())
	}
}

// NotifySettlement queues the settlement for delivery.
func (d *Dispatcher) NotifySettlement(_ context.Context, res *commission.Result) {
	if res == nil {
		return
	}
	select {
	case d.queue <- res:
		metrics.NotificationQueueSizeSet(len(d.queue))
	default:
		metrics.NotificationInc("settlement", "dropped")
		d.log.Warn("notification queue full, dropping settlement",
			logging.ChargeCode(res.Charge.Code))
	}
}

// Start runs the workers until the context is cancelled, then delivers what
// is left in the queue.
func (d *Dispatcher) Start(ctx context.Context) error {
	workers := d.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	d.log.Info("starting notification workers", logging.Int("workers", workers))
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	<-ctx.Done()
	d.wg.Wait()
	d.drain()
	return nil
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-d.queue:
			metrics.NotificationQueueSizeSet(len(d.queue))
			d.deliver(ctx, res)
		}
	}
}

// drain attempts each remaining message once with a fresh deadline.
func (d *Dispatcher) drain() {
	for {
		select {
		case res := <-d.queue:
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout.Get())
			d.deliver(ctx, res)
			cancel()
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, res *commission.Result) {
	for _, msg := range d.messages(ctx, res) {
		sctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout.Get())
		err := d.sender.Send(sctx, msg)
		cancel()
		if err != nil {
			metrics.NotificationInc(string(msg.Kind), "failed")
			d.log.Error("could not deliver notification",
				logging.String("kind", string(msg.Kind)),
				logging.ChargeCode(res.Charge.Code),
				logging.Error(err))
			continue
		}
		metrics.NotificationInc(string(msg.Kind), "sent")
	}
}

func (d *Dispatcher) messages(ctx context.Context, res *commission.Result) []Message {
	out := make([]Message, 0, len(res.Commissions)+1)

	if to, ok := d.address(ctx, res.Charge.CustomerID); ok {
		out = append(out, Message{
			Kind:    KindPurchaseConfirmed,
			To:      to,
			Subject: "Your purchase is confirmed",
			Body:    fmt.Sprintf("Payment for charge %s has been confirmed.", res.Charge.Code),
		})
	}
	for _, c := range res.Commissions {
		if c.Amount <= 0 {
			continue
		}
		to, ok := d.address(ctx, c.CustomerID)
		if !ok {
			continue
		}
		out = append(out, Message{
			Kind:    KindCommissionEarned,
			To:      to,
			Subject: "You earned a referral commission",
			Body:    fmt.Sprintf("You earned %d %s (tier %d) from charge %s.", c.Amount, c.Currency, c.Tier, res.Charge.Code),
		})
	}
	return out
}

func (d *Dispatcher) address(ctx context.Context, id entities.CustomerID) (string, bool) {
	customer, err := d.customers.GetByID(ctx, id)
	if err != nil {
		d.log.Warn("could not resolve notification recipient",
			logging.CustomerID(int64(id)),
			logging.Error(err))
		return "", false
	}
	if len(customer.Email) == 0 {
		return "", false
	}
	return customer.Email, true
}
