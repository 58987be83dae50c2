package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mafia-engine/internal/domain"
	portmocks "github.com/bnema/mafia-engine/internal/ports/mocks"
)

func TestNotifyChannelReachesEverySink(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockNotifier(t)
	second := portmocks.NewMockNotifier(t)
	notifier := New(first, second)

	first.EXPECT().NotifyChannel(mock.Anything, domain.SessionKey("chan-1"), "Day 1 has begun").Return(nil).Once()
	second.EXPECT().NotifyChannel(mock.Anything, domain.SessionKey("chan-1"), "Day 1 has begun").Return(nil).Once()

	require.NoError(t, notifier.NotifyChannel(context.Background(), "chan-1", "Day 1 has begun"))
}

func TestNotifyUserKeepsGoingAfterFailure(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockNotifier(t)
	second := portmocks.NewMockNotifier(t)
	notifier := New(first, second)

	first.EXPECT().NotifyUser(mock.Anything, domain.PlayerID(7), "role").Return(errors.New("dm closed")).Once()
	second.EXPECT().NotifyUser(mock.Anything, domain.PlayerID(7), "role").Return(nil).Once()

	err := notifier.NotifyUser(context.Background(), 7, "role")
	require.Error(t, err)
	assert.ErrorContains(t, err, "notify user")
	assert.ErrorContains(t, err, "sink 0: dm closed")
}

func TestUpdatesCombineErrors(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockNotifier(t)
	second := portmocks.NewMockNotifier(t)
	notifier := New(first, second)

	first.EXPECT().UpdateRenderedTally(mock.Anything, domain.SessionKey("chan-1")).Return(errors.New("edit failed")).Once()
	second.EXPECT().UpdateRenderedTally(mock.Anything, domain.SessionKey("chan-1")).Return(errors.New("socket gone")).Once()
	first.EXPECT().UpdateRenderedRoster(mock.Anything, domain.SessionKey("chan-1")).Return(nil).Once()
	second.EXPECT().UpdateRenderedRoster(mock.Anything, domain.SessionKey("chan-1")).Return(nil).Once()

	err := notifier.UpdateRenderedTally(context.Background(), "chan-1")
	assert.ErrorContains(t, err, "edit failed")
	assert.ErrorContains(t, err, "socket gone")

	require.NoError(t, notifier.UpdateRenderedRoster(context.Background(), "chan-1"))
}

func TestRequestPrivateChannelUsesFirstSinkThatSucceeds(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockNotifier(t)
	second := portmocks.NewMockNotifier(t)
	notifier := New(first, second)
	members := []domain.PlayerID{1, 2}

	first.EXPECT().RequestPrivateChannel(mock.Anything, domain.SessionKey("chan-1"), members).Return("", errors.New("unsupported")).Once()
	second.EXPECT().RequestPrivateChannel(mock.Anything, domain.SessionKey("chan-1"), members).Return("private-1", nil).Once()

	ref, err := notifier.RequestPrivateChannel(context.Background(), "chan-1", members)
	require.NoError(t, err)
	assert.Equal(t, "private-1", ref)
}

func TestRequestPrivateChannelStopsOnContextError(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockNotifier(t)
	second := portmocks.NewMockNotifier(t)
	notifier := New(first, second)

	first.EXPECT().RequestPrivateChannel(mock.Anything, domain.SessionKey("chan-1"), mock.Anything).Return("", context.DeadlineExceeded).Once()

	_, err := notifier.RequestPrivateChannel(context.Background(), "chan-1", []domain.PlayerID{1, 2})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCheckedRejectsEmptySinks(t *testing.T) {
	t.Parallel()

	_, err := NewChecked(nil, nil)
	require.ErrorIs(t, err, errNoSinks)
}
