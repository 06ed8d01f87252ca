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
package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/notify"
	"code.refchain.io/node/notify/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func fastConfig(attempts uint64) notify.Config {
	cfg := notify.NewDefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialInterval = encoding.Duration{Duration: time.Millisecond}
	cfg.MaxInterval = encoding.Duration{Duration: 2 * time.Millisecond}
	return cfg
}

func TestRetryingSenderRetriesUntilDelivered(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	msg := notify.Message{Kind: notify.KindCommissionEarned, To: "b@example.com"}

	gomock.InOrder(
		sender.EXPECT().Send(gomock.Any(), msg).Return(errors.New("smtp busy")),
		sender.EXPECT().Send(gomock.Any(), msg).Return(errors.New("smtp busy")),
		sender.EXPECT().Send(gomock.Any(), msg).Return(nil),
	)

	rs := notify.NewRetryingSender(logging.NewTestLogger(), fastConfig(3), sender)
	assert.NoError(t, rs.Send(context.Background(), msg))
}

func TestRetryingSenderGivesUpAfterMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	failure := errors.New("mailbox unavailable")
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(failure).Times(2)

	rs := notify.NewRetryingSender(logging.NewTestLogger(), fastConfig(2), sender)
	assert.ErrorIs(t, rs.Send(context.Background(), notify.Message{To: "x@example.com"}), failure)
}

func TestRetryingSenderStopsOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("down")).MaxTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rs := notify.NewRetryingSender(logging.NewTestLogger(), fastConfig(10), sender)
	assert.Error(t, rs.Send(ctx, notify.Message{To: "x@example.com"}))
}
