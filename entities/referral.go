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

package entities

import "fmt"

// ReferralEntry groups the direct referees of one referrer.
type ReferralEntry struct {
	Referrer Customer   `json:"referrer"`
	Referees []Customer `json:"referees"`
}

type ReferralLevel struct {
	Level           string          `json:"level"`
	ReferralEntries []ReferralEntry `json:"referralEntries"`
}

func LevelName(n int) string {
	return fmt.Sprintf("level%d", n)
}
