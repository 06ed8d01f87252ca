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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInstrumentRejectsUnknownType(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := AddInstrument(reg, instrument(42), "unknown")
	assert.ErrorIs(t, err, ErrInstrumentNotSupported)
}

func TestInstrumentTypeMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := AddInstrument(reg, Counter, "c", Vectors("a"))
	require.NoError(t, err)
	_, err = h.HistogramVec()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	_, err = h.Gauge()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
}

func TestSettlementCounter(t *testing.T) {
	require.NoError(t, Setup())
	// a second call is a no-op
	require.NoError(t, Setup())

	before := testutil.ToFloat64(settlementCounter.WithLabelValues("settled"))
	SettlementInc("settled")
	assert.Equal(t, before+1, testutil.ToFloat64(settlementCounter.WithLabelValues("settled")))

	StartSQLQuery("Commissions", "Add")()
	assert.Equal(t, 1, testutil.CollectAndCount(sqlQueryCounter))
}
