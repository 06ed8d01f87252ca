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

package steps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

// StrictParseTable parses the table and panics when a required column is
// missing or an unknown column is present.
func StrictParseTable(table *godog.Table, required, optional []string) []RowWrapper {
	if len(table.Rows) == 0 {
		return nil
	}

	known := map[string]struct{}{}
	for _, c := range required {
		known[c] = struct{}{}
	}
	for _, c := range optional {
		known[c] = struct{}{}
	}

	header := table.Rows[0].Cells
	present := map[string]struct{}{}
	for _, cell := range header {
		if _, ok := known[cell.Value]; !ok {
			panic(fmt.Errorf("unexpected column %q", cell.Value))
		}
		present[cell.Value] = struct{}{}
	}
	for _, c := range required {
		if _, ok := present[c]; !ok {
			panic(fmt.Errorf("missing required column %q", c))
		}
	}

	out := make([]RowWrapper, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		wrapper := RowWrapper{values: map[string]string{}}
		for i := range row.Cells {
			wrapper.values[header[i].Value] = row.Cells[i].Value
		}
		out = append(out, wrapper)
	}
	return out
}

type RowWrapper struct {
	values map[string]string
}

func (r RowWrapper) HasColumn(name string) bool {
	v, ok := r.values[name]
	return ok && v != ""
}

func (r RowWrapper) Str(name string) string {
	return r.values[name]
}

func (r RowWrapper) MustStr(name string) string {
	v, ok := r.values[name]
	if !ok {
		panic(fmt.Errorf("column %q not found", name))
	}
	return v
}

func (r RowWrapper) StrSlice(name, sep string) []string {
	v := r.values[name]
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (r RowWrapper) MustI64(name string) int64 {
	v, err := strconv.ParseInt(r.MustStr(name), 10, 64)
	panicW(name, err)
	return v
}

func (r RowWrapper) MustI32(name string) int32 {
	v, err := strconv.ParseInt(r.MustStr(name), 10, 32)
	panicW(name, err)
	return int32(v)
}

func (r RowWrapper) MustBool(name string) bool {
	v, err := strconv.ParseBool(r.MustStr(name))
	panicW(name, err)
	return v
}

func (r RowWrapper) MustDecimal(name string) decimal.Decimal {
	v, err := decimal.NewFromString(r.MustStr(name))
	panicW(name, err)
	return v
}

func panicW(field string, err error) {
	if err != nil {
		panic(fmt.Errorf("couldn't parse %s: %w", field, err))
	}
}
