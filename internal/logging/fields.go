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

package logging

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func String(key, value string) zap.Field {
	return zap.String(key, value)
}

func Strings(key string, values []string) zap.Field {
	return zap.Strings(key, values)
}

func Error(err error) zap.Field {
	return zap.Error(err)
}

func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Int64(key string, value int64) zap.Field {
	return zap.Int64(key, value)
}

func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

func Decimal(key string, value decimal.Decimal) zap.Field {
	return zap.String(key, value.String())
}

func CustomerID(id int64) zap.Field {
	return zap.Int64("customer-id", id)
}

func ChargeCode(code string) zap.Field {
	return zap.String("charge-code", code)
}

func Tier(tier int32) zap.Field {
	return zap.Int32("tier", tier)
}

func EventType(t string) zap.Field {
	return zap.String("event-type", t)
}
