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
package payments

import (
	"fmt"
	"strings"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
)

// Classification is the status of a charge as derived from its timeline.
type Classification struct {
	Status entities.PaymentStatus
	// Reason is only set for unresolved charges.
	Reason *entities.UnresolvedReason
}

func (c Classification) IsCompleted() bool {
	return c.Status == entities.PaymentStatusCompleted
}

var unresolvedContexts = map[string]entities.UnresolvedReason{
	coinbase.ContextUnderpaid: entities.UnresolvedReasonUnderpaid,
	coinbase.ContextOverpaid:  entities.UnresolvedReasonOverpaid,
	coinbase.ContextDelayed:   entities.UnresolvedReasonDelayed,
	coinbase.ContextMultiple:  entities.UnresolvedReasonMultiple,
}

// Classify reads the latest timeline entry of a charge. The gateway is the
// authority on transitions so no legality check is made. An unresolved
// charge whose context is not one of the known reasons, MANUAL included, is
// classified as OTHER.
func Classify(charge coinbase.ChargeResource) (Classification, error) {
	latest, ok := charge.LatestStatus()
	if !ok {
		return Classification{}, fmt.Errorf("charge %s has an empty timeline: %w", charge.Code, entities.ErrInvalidArgument)
	}

	status, ok := entities.ParsePaymentStatus(strings.ReplaceAll(strings.ToUpper(latest.Status), " ", "_"))
	if !ok {
		return Classification{}, fmt.Errorf("unknown charge status %q: %w", latest.Status, entities.ErrInvalidArgument)
	}

	out := Classification{Status: status}
	if status == entities.PaymentStatusUnresolved {
		reason, ok := unresolvedContexts[strings.ToUpper(latest.Context)]
		if !ok {
			reason = entities.UnresolvedReasonOther
		}
		out.Reason = &reason
	}
	return out, nil
}
