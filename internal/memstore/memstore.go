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
// Package memstore keeps the platform state in memory. It mirrors the
// behaviour of the sql stores, constraints included, and is used by tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"code.refchain.io/node/entities"
)

var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

type state struct {
	customers   map[entities.CustomerID]entities.Customer
	tiers       map[int32]entities.CommissionTier
	charges     map[entities.ChargeID]entities.Charge
	activities  map[entities.ChargeID]entities.PurchaseActivity
	payments    []entities.Payment
	commissions []entities.Commission
	seq         int64
}

func newState() *state {
	return &state{
		customers:  map[entities.CustomerID]entities.Customer{},
		tiers:      map[int32]entities.CommissionTier{},
		charges:    map[entities.ChargeID]entities.Charge{},
		activities: map[entities.ChargeID]entities.PurchaseActivity{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.tiers {
		c.tiers[k] = v
	}
	for k, v := range s.charges {
		c.charges[k] = v
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	c.payments = append(c.payments, s.payments...)
	c.commissions = append(c.commissions, s.commissions...)
	c.seq = s.seq
	return c
}

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state

	Customers          *Customers
	CommissionTiers    *CommissionTiers
	Charges            *Charges
	PurchaseActivities *PurchaseActivities
	Payments           *Payments
	Commissions        *Commissions
}

func New() *Store {
	s := &Store{st: newState()}
	s.Customers = &Customers{s: s}
	s.CommissionTiers = &CommissionTiers{s: s}
	s.Charges = &Charges{s: s}
	s.PurchaseActivities = &PurchaseActivities{s: s}
	s.Payments = &Payments{s: s}
	s.Commissions = &Commissions{s: s}
	return s
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

// InTransaction serialises top level transactions and restores the state
// when fn fails. Nested calls behave like savepoints.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
		ctx = context.WithValue(ctx, txKey{}, true)
	}

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) HasTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

type Customers struct{ s *Store }

func (c *Customers) Add(_ context.Context, customer *entities.Customer) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, existing := range c.s.st.customers {
		if existing.ReferralCode == customer.ReferralCode {
			return fmt.Errorf("referral code %s: %w", customer.ReferralCode, entities.ErrConflict)
		}
	}
	if customer.CustomerStatus == entities.CustomerStatusUnspecified {
		customer.CustomerStatus = entities.CustomerStatusPending
	}
	customer.ID = entities.CustomerID(c.s.nextID())
	customer.CreatedAt = time.Now()
	c.s.st.customers[customer.ID] = *customer
	return nil
}

// Put stores the customer as is. It allows tests to build corrupted graphs.
func (c *Customers) Put(customer entities.Customer) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.st.customers[customer.ID] = customer
	if int64(customer.ID) > c.s.st.seq {
		c.s.st.seq = int64(customer.ID)
	}
}

func (c *Customers) GetByID(_ context.Context, id entities.CustomerID) (entities.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	customer, ok := c.s.st.customers[id]
	if !ok {
		return entities.Customer{}, fmt.Errorf("customer %d: %w", id, entities.ErrNotFound)
	}
	return customer, nil
}

func (c *Customers) GetByReferralCode(_ context.Context, code string) (entities.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, customer := range c.s.st.customers {
		if customer.ReferralCode == code {
			return customer, nil
		}
	}
	return entities.Customer{}, fmt.Errorf("referral code %s: %w", code, entities.ErrNotFound)
}

func (c *Customers) ListReferees(_ context.Context, referrers []entities.CustomerID) ([]entities.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	wanted := map[entities.CustomerID]struct{}{}
	for _, id := range referrers {
		wanted[id] = struct{}{}
	}
	out := []entities.Customer{}
	for _, customer := range c.s.st.customers {
		if customer.ReferralCustomerID == nil {
			continue
		}
		if _, ok := wanted[*customer.ReferralCustomerID]; ok {
			out = append(out, customer)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].ReferralCustomerID != *out[j].ReferralCustomerID {
			return *out[i].ReferralCustomerID < *out[j].ReferralCustomerID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *Customers) UpdateStatus(_ context.Context, id entities.CustomerID, status entities.CustomerStatus) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	customer, ok := c.s.st.customers[id]
	if !ok {
		return fmt.Errorf("customer %d: %w", id, entities.ErrNotFound)
	}
	customer.CustomerStatus = status
	c.s.st.customers[id] = customer
	return nil
}

type CommissionTiers struct{ s *Store }

func (t *CommissionTiers) Add(_ context.Context, tier entities.CommissionTier) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.st.tiers[tier.Tier]; ok {
		return fmt.Errorf("commission tier %d: %w", tier.Tier, entities.ErrConflict)
	}
	t.s.st.tiers[tier.Tier] = tier
	return nil
}

func (t *CommissionTiers) Update(_ context.Context, tier entities.CommissionTier) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.st.tiers[tier.Tier]; !ok {
		return fmt.Errorf("commission tier %d: %w", tier.Tier, entities.ErrNotFound)
	}
	t.s.st.tiers[tier.Tier] = tier
	return nil
}

func (t *CommissionTiers) Delete(_ context.Context, tier int32) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.st.tiers[tier]; !ok {
		return fmt.Errorf("commission tier %d: %w", tier, entities.ErrNotFound)
	}
	delete(t.s.st.tiers, tier)
	return nil
}

func (t *CommissionTiers) Get(_ context.Context, tier int32) (entities.CommissionTier, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	ct, ok := t.s.st.tiers[tier]
	if !ok {
		return entities.CommissionTier{}, fmt.Errorf("commission tier %d: %w", tier, entities.ErrNotFound)
	}
	return ct, nil
}

func (t *CommissionTiers) GetAll(_ context.Context) ([]entities.CommissionTier, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := make([]entities.CommissionTier, 0, len(t.s.st.tiers))
	for _, ct := range t.s.st.tiers {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out, nil
}

type Charges struct{ s *Store }

func (c *Charges) Add(_ context.Context, charge *entities.Charge) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, existing := range c.s.st.charges {
		if existing.Code == charge.Code {
			return fmt.Errorf("charge %s: %w", charge.Code, entities.ErrConflict)
		}
	}
	charge.ID = entities.ChargeID(c.s.nextID())
	charge.CreatedAt = time.Now()
	c.s.st.charges[charge.ID] = *charge
	return nil
}

func (c *Charges) GetByCode(_ context.Context, code string) (entities.Charge, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, charge := range c.s.st.charges {
		if charge.Code == code {
			return charge, nil
		}
	}
	return entities.Charge{}, fmt.Errorf("charge %s: %w", code, entities.ErrNotFound)
}

func (c *Charges) GetByID(_ context.Context, id entities.ChargeID) (entities.Charge, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	charge, ok := c.s.st.charges[id]
	if !ok {
		return entities.Charge{}, fmt.Errorf("charge %d: %w", id, entities.ErrNotFound)
	}
	return charge, nil
}

type PurchaseActivities struct{ s *Store }

func (p *PurchaseActivities) Add(_ context.Context, activity *entities.PurchaseActivity) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.st.activities[activity.ChargeID]; ok {
		return fmt.Errorf("purchase activity for charge %d: %w", activity.ChargeID, entities.ErrConflict)
	}
	if activity.PaymentStatus == entities.PaymentStatusUnspecified {
		activity.PaymentStatus = entities.PaymentStatusNew
	}
	activity.ID = p.s.nextID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt
	p.s.st.activities[activity.ChargeID] = *activity
	return nil
}

func (p *PurchaseActivities) GetByChargeID(_ context.Context, chargeID entities.ChargeID) (entities.PurchaseActivity, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	activity, ok := p.s.st.activities[chargeID]
	if !ok {
		return entities.PurchaseActivity{}, fmt.Errorf("purchase activity for charge %d: %w", chargeID, entities.ErrNotFound)
	}
	return activity, nil
}

func (p *PurchaseActivities) UpdatePaymentStatus(_ context.Context, chargeID entities.ChargeID, status entities.PaymentStatus, reason *entities.UnresolvedReason) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	activity, ok := p.s.st.activities[chargeID]
	if !ok {
		return fmt.Errorf("purchase activity for charge %d: %w", chargeID, entities.ErrNotFound)
	}
	activity.PaymentStatus = status
	activity.UnresolvedReason = reason
	activity.UpdatedAt = time.Now()
	p.s.st.activities[chargeID] = activity
	return nil
}

func (p *PurchaseActivities) Confirm(_ context.Context, chargeID entities.ChargeID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	activity, ok := p.s.st.activities[chargeID]
	if !ok || activity.PurchaseConfirmed {
		return fmt.Errorf("charge %d: %w", chargeID, entities.ErrAlreadySettled)
	}
	activity.PurchaseConfirmed = true
	activity.UpdatedAt = time.Now()
	p.s.st.activities[chargeID] = activity
	return nil
}

type Payments struct{ s *Store }

func (p *Payments) LockCharge(ctx context.Context, _ string) error {
	if !p.s.HasTransaction(ctx) {
		return ErrNoTransaction
	}
	return nil
}

func (p *Payments) Add(_ context.Context, payment *entities.Payment) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if payment.Transaction != nil {
		for _, existing := range p.s.st.payments {
			if existing.ChargeID == payment.ChargeID && existing.Transaction != nil && *existing.Transaction == *payment.Transaction {
				return false, nil
			}
		}
	}
	payment.ID = entities.PaymentID(p.s.nextID())
	payment.CreatedAt = time.Now()
	p.s.st.payments = append(p.s.st.payments, *payment)
	return true, nil
}

func (p *Payments) ListTransactionIDs(_ context.Context, chargeID entities.ChargeID) ([]string, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var ids []string
	for _, payment := range p.s.st.payments {
		if payment.ChargeID == chargeID && payment.Transaction != nil {
			ids = append(ids, *payment.Transaction)
		}
	}
	return ids, nil
}

func (p *Payments) CountByStatus(_ context.Context, chargeID entities.ChargeID, status entities.PaymentStatus) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var n int64
	for _, payment := range p.s.st.payments {
		if payment.ChargeID == chargeID && payment.PaymentStatus == status {
			n++
		}
	}
	return n, nil
}

func (p *Payments) ListByCharge(_ context.Context, chargeID entities.ChargeID) ([]entities.Payment, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var out []entities.Payment
	for _, payment := range p.s.st.payments {
		if payment.ChargeID == chargeID {
			out = append(out, payment)
		}
	}
	return out, nil
}

type Commissions struct{ s *Store }

func (c *Commissions) AddBatch(_ context.Context, commissions []entities.Commission) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, line := range commissions {
		for _, existing := range c.s.st.commissions {
			if existing.ChargeID == line.ChargeID && existing.Tier == line.Tier {
				return fmt.Errorf("commission for charge %d tier %d: %w", line.ChargeID, line.Tier, entities.ErrConflict)
			}
		}
	}
	for i := range commissions {
		commissions[i].ID = entities.CommissionID(c.s.nextID())
		commissions[i].CreatedAt = time.Now()
		c.s.st.commissions = append(c.s.st.commissions, commissions[i])
	}
	return nil
}

func (c *Commissions) ListByCharge(_ context.Context, chargeID entities.ChargeID) ([]entities.Commission, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []entities.Commission
	for _, line := range c.s.st.commissions {
		if line.ChargeID == chargeID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out, nil
}

func (c *Commissions) ListByCustomer(_ context.Context, customerID entities.CustomerID) ([]entities.Commission, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []entities.Commission
	for _, line := range c.s.st.commissions {
		if line.CustomerID == customerID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (c *Commissions) MarkTransferred(_ context.Context, id entities.CommissionID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.st.commissions {
		if c.s.st.commissions[i].ID == id {
			c.s.st.commissions[i].IsTransferred = true
			return nil
		}
	}
	return fmt.Errorf("commission %d: %w", id, entities.ErrNotFound)
}
