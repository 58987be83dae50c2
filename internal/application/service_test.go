package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mafia-engine/internal/domain"
)

const (
	testKey  domain.SessionKey = "chan-100"
	testHost domain.PlayerID   = 1000
)

var baseTime = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc      *Service
	store    *inMemorySessionStore
	notifier *recordingNotifier
	clock    *fixedClock
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()

	store := newInMemorySessionStore()
	notifier := &recordingNotifier{}
	clock := &fixedClock{now: baseTime}
	svc := NewService(store, notifier, clock, WithRandom(rand.New(rand.NewPCG(1, 2))))
	return serviceFixture{svc: svc, store: store, notifier: notifier, clock: clock}
}

func (f serviceFixture) signup(t *testing.T, players int, maxPlayers *int) {
	t.Helper()

	_, err := f.svc.StartSession(context.Background(), StartSessionCommand{
		Key:        testKey,
		GuildID:    "guild-1",
		HostID:     testHost,
		MinPlayers: 3,
		MaxPlayers: maxPlayers,
	})
	require.NoError(t, err)

	for id := domain.PlayerID(1); id <= domain.PlayerID(players); id++ {
		_, err := f.svc.Join(context.Background(), JoinCommand{Key: testKey, PlayerID: id, DisplayName: fmt.Sprintf("p%d", id)})
		require.NoError(t, err)
	}
}

func (f serviceFixture) startDay(t *testing.T, players, mafia int) domain.Session {
	t.Helper()

	f.signup(t, players, nil)
	_, err := f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{
		Key:         testKey,
		RequesterID: testHost,
		MafiaCount:  mafia,
	})
	require.NoError(t, err)

	session, err := f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)
	return session
}

func TestStartSessionOpensSignup(t *testing.T) {
	f := newServiceFixture(t)

	session, err := f.svc.StartSession(context.Background(), StartSessionCommand{
		Key:            testKey,
		HostID:         testHost,
		MaxPlayers:     domain.IntPtr(7),
		SignupDuration: 2 * time.Hour,
		GameLength:     domain.GameLengthQuick,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseSignup, session.Phase.Name)
	assert.Equal(t, 0, session.Phase.Number)
	assert.Equal(t, baseTime.Add(2*time.Hour), session.Phase.EndsAt)
	assert.Equal(t, session.Phase.EndsAt, session.Config.SignupDeadline)
	assert.Equal(t, 30*time.Minute, session.Config.DayDuration)
	assert.Equal(t, domain.DefaultMinPlayers, session.Config.MinPlayers)

	stored := f.store.get(testKey)
	assert.Equal(t, session, stored)
	require.Len(t, f.notifier.channelTexts(), 1)
	assert.Contains(t, f.notifier.channelTexts()[0], "Signups are open")
	assert.Equal(t, 1, f.notifier.rosterUpdates)
}

func TestStartSessionRejectsRunningGameButReplacesTerminalOne(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 0, nil)

	_, err := f.svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: 2})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)

	_, err = f.svc.CancelSession(context.Background(), CancelSessionCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)

	session, err := f.svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(2), session.HostID)
	assert.Equal(t, domain.PhaseSignup, f.store.get(testKey).Phase.Name)
}

func TestStartSessionValidatesConfig(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: testHost, SignupDuration: time.Minute})
	require.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = f.svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: testHost, MinPlayers: 8, MaxPlayers: domain.IntPtr(6)})
	require.ErrorIs(t, err, domain.ErrInvalidCount)

	_, err = f.svc.GetSession(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestJoinEvictionNotifiesEvictedPlayer(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 2, domain.IntPtr(3))

	_, err := f.svc.JoinTentative(context.Background(), JoinCommand{Key: testKey, PlayerID: 50})
	require.NoError(t, err)

	result, err := f.svc.Join(context.Background(), JoinCommand{Key: testKey, PlayerID: 51})
	require.NoError(t, err)
	require.NotNil(t, result.Evicted)
	assert.Equal(t, domain.PlayerID(50), *result.Evicted)
	assert.Contains(t, f.notifier.usersMessaged(), domain.PlayerID(50))

	_, err = f.svc.Join(context.Background(), JoinCommand{Key: testKey, PlayerID: 52})
	require.ErrorIs(t, err, domain.ErrRosterFull)
}

func TestJoinUnknownSession(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Join(context.Background(), JoinCommand{Key: "missing", PlayerID: 1})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestFailedMutationIsNotPersisted(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 3, nil)
	before := f.store.putCount()

	_, err := f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: 1, TargetID: 2})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)

	_, err = f.svc.Withdraw(context.Background(), WithdrawCommand{Key: testKey, PlayerID: 99})
	require.ErrorIs(t, err, domain.ErrNotInRoster)

	assert.Equal(t, before, f.store.putCount())
}

func TestPersistFailureSkipsNotifications(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 3, nil)
	rosterUpdates := f.notifier.rosterUpdates
	f.store.failPut[testKey] = errors.New("disk full")

	_, err := f.svc.Withdraw(context.Background(), WithdrawCommand{Key: testKey, PlayerID: 1})
	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, rosterUpdates, f.notifier.rosterUpdates)
	assert.Len(t, f.store.get(testKey).Players, 3)
}

func TestSetFactionCountsRequiresHostAndValidCounts(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 5, nil)

	_, err := f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: 1, MafiaCount: 1})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 3, NeutralCount: 2})
	require.ErrorIs(t, err, domain.ErrInvalidCount)

	session, err := f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 2, NeutralCount: 1, NeutralsTeamed: true})
	require.NoError(t, err)
	require.NotNil(t, session.MafiaCount)
	assert.Equal(t, 2, *session.MafiaCount)
	require.NotNil(t, session.NeutralCount)
	assert.Equal(t, 1, *session.NeutralCount)
	assert.True(t, session.Config.NeutralsTeamed)
}

func TestAssignRolesRequiresConfiguredCounts(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 5, nil)

	_, err := f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.ErrorIs(t, err, domain.ErrRolesNotConfigured)

	_, err = f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: 1})
	require.ErrorIs(t, err, domain.ErrForbidden)

	session := f.store.get(testKey)
	session.MafiaCount = domain.IntPtr(1)
	session.NeutralCount = nil
	f.store.seed(session)

	_, err = f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.ErrorIs(t, err, domain.ErrRolesNotConfigured)
	assert.Equal(t, domain.PhaseSignup, f.store.get(testKey).Phase.Name)
}

func TestAssignRolesAndStart(t *testing.T) {
	f := newServiceFixture(t)

	session := f.startDay(t, 7, 2)

	assert.Equal(t, domain.PhaseDay, session.Phase.Name)
	assert.Equal(t, 1, session.Phase.Number)
	assert.Equal(t, baseTime.Add(session.Config.DayDuration), session.Phase.EndsAt)
	assert.Len(t, session.Factions.Mafia, 2)
	assert.Len(t, session.Factions.Town, 5)
	for _, player := range session.Players {
		assert.NotEmpty(t, player.Role, "player %d", player.ID)
	}

	assert.Equal(t, "private-1", session.Refs[domain.RefMafiaChannel])
	assert.Equal(t, "private-1", f.store.get(testKey).Refs[domain.RefMafiaChannel])
	require.Len(t, f.notifier.privateGroups, 1)
	assert.ElementsMatch(t, session.Factions.Mafia, f.notifier.privateGroups[0])
	assert.ElementsMatch(t, session.PlayerIDs(), f.notifier.usersMessaged())
	assert.Contains(t, f.notifier.channelTexts()[len(f.notifier.channelTexts())-1], "Day 1 has begun")

	_, err := f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestAssignRolesSkipsPrivateChannelForLoneMafia(t *testing.T) {
	f := newServiceFixture(t)

	session := f.startDay(t, 5, 1)

	assert.Empty(t, f.notifier.privateGroups)
	assert.NotContains(t, session.Refs, domain.RefMafiaChannel)
}

func TestFailedStartOpensNoPrivateChannel(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 7, nil)
	_, err := f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 2})
	require.NoError(t, err)
	f.store.failPut[testKey] = errors.New("disk full")

	_, err = f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.Error(t, err)

	assert.Empty(t, f.notifier.privateGroups)
	assert.Equal(t, domain.PhaseSignup, f.store.get(testKey).Phase.Name)
}

func TestAdvancePhaseManually(t *testing.T) {
	f := newServiceFixture(t)
	f.startDay(t, 5, 1)

	_, err := f.svc.AdvancePhaseManually(context.Background(), AdvancePhaseCommand{Key: testKey, RequesterID: 1, Target: domain.PhaseNight})
	require.ErrorIs(t, err, domain.ErrForbidden)

	f.clock.Advance(time.Hour)
	night, err := f.svc.AdvancePhaseManually(context.Background(), AdvancePhaseCommand{Key: testKey, RequesterID: testHost, Target: domain.PhaseNight})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNight, night.Phase.Name)
	assert.Equal(t, baseTime.Add(time.Hour+night.Config.NightDuration), night.Phase.EndsAt)

	day, err := f.svc.AdvancePhaseManually(context.Background(), AdvancePhaseCommand{Key: testKey, RequesterID: testHost, Target: domain.PhaseDay})
	require.NoError(t, err)
	assert.Equal(t, 2, day.Phase.Number)

	_, err = f.svc.AdvancePhaseManually(context.Background(), AdvancePhaseCommand{Key: testKey, RequesterID: testHost, Target: domain.PhaseDay})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestCastVoteHammer(t *testing.T) {
	f := newServiceFixture(t)
	f.startDay(t, 5, 1)

	for voter := domain.PlayerID(1); voter <= 2; voter++ {
		result, err := f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: voter, TargetID: 5})
		require.NoError(t, err)
		assert.False(t, result.Hammered)
	}

	result, err := f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: 3, TargetID: 5})
	require.NoError(t, err)
	assert.True(t, result.Hammered)
	assert.Equal(t, domain.PhaseTwilight, result.Session.Phase.Name)
	assert.Equal(t, baseTime.Add(domain.TwilightDuration), result.Session.Phase.EndsAt)
	assert.Len(t, result.Session.Votes, 3)
	assert.Contains(t, f.notifier.usersMessaged(), testHost)
	assert.Contains(t, f.notifier.channelTexts()[len(f.notifier.channelTexts())-1], "p5 has been hammered")

	_, err = f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: 4, TargetID: 5})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestRetractVote(t *testing.T) {
	f := newServiceFixture(t)
	f.startDay(t, 5, 1)

	_, err := f.svc.RetractVote(context.Background(), RetractVoteCommand{Key: testKey, VoterID: 1})
	require.ErrorIs(t, err, domain.ErrNoActiveVote)

	_, err = f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: 1, TargetID: 2})
	require.NoError(t, err)

	result, err := f.svc.RetractVote(context.Background(), RetractVoteCommand{Key: testKey, VoterID: 1})
	require.NoError(t, err)
	assert.Empty(t, result.Tally.Entries)
	assert.Len(t, result.Tally.NotVoting, 5)
}

func TestNotifierFailuresDoNotFailCommands(t *testing.T) {
	store := newInMemorySessionStore()
	notifier := &mockNotifier{}
	notifyErr := errors.New("chat platform down")
	notifier.On("NotifyChannel", mockAnyContext(), testKey, mock.Anything).Return(notifyErr)
	notifier.On("UpdateRenderedRoster", mockAnyContext(), testKey).Return(notifyErr)
	svc := NewService(store, notifier, &fixedClock{now: baseTime})

	_, err := svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: testHost})
	require.NoError(t, err)

	result, err := svc.Join(context.Background(), JoinCommand{Key: testKey, PlayerID: 1})
	require.NoError(t, err)
	assert.Len(t, result.Session.Players, 1)
	assert.Len(t, store.get(testKey).Players, 1)

	notifier.AssertNumberOfCalls(t, "UpdateRenderedRoster", 2)
}

func TestPrivateChannelFailureStillStartsGame(t *testing.T) {
	store := newInMemorySessionStore()
	notifier := &mockNotifier{}
	notifier.On("NotifyChannel", mockAnyContext(), testKey, mock.Anything).Return(nil)
	notifier.On("NotifyUser", mockAnyContext(), mock.Anything, mock.Anything).Return(nil)
	notifier.On("UpdateRenderedRoster", mockAnyContext(), testKey).Return(nil)
	notifier.On("UpdateRenderedTally", mockAnyContext(), testKey).Return(nil)
	notifier.On("RequestPrivateChannel", mockAnyContext(), testKey, mock.Anything).Return("", errors.New("no permission"))
	svc := NewService(store, notifier, &fixedClock{now: baseTime}, WithRandom(rand.New(rand.NewPCG(3, 4))))

	_, err := svc.StartSession(context.Background(), StartSessionCommand{Key: testKey, HostID: testHost})
	require.NoError(t, err)
	for id := domain.PlayerID(1); id <= 6; id++ {
		_, err := svc.Join(context.Background(), JoinCommand{Key: testKey, PlayerID: id})
		require.NoError(t, err)
	}
	_, err = svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 2})
	require.NoError(t, err)

	session, err := svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDay, session.Phase.Name)
	assert.NotContains(t, session.Refs, domain.RefMafiaChannel)
	notifier.AssertNumberOfCalls(t, "NotifyUser", 6)
}

func TestCancelSession(t *testing.T) {
	f := newServiceFixture(t)
	f.startDay(t, 5, 1)

	_, err := f.svc.CancelSession(context.Background(), CancelSessionCommand{Key: testKey, RequesterID: 1})
	require.ErrorIs(t, err, domain.ErrForbidden)

	session, err := f.svc.CancelSession(context.Background(), CancelSessionCommand{Key: testKey, RequesterID: 1, Elevated: true})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCancelled, session.Phase.Name)

	_, err = f.svc.CancelSession(context.Background(), CancelSessionCommand{Key: testKey, RequesterID: testHost})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestDeleteSessionOnlyWhenTerminal(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 1, nil)

	err := f.svc.DeleteSession(context.Background(), DeleteSessionCommand{Key: testKey, RequesterID: testHost})
	require.ErrorIs(t, err, domain.ErrInvalidPhase)

	_, err = f.svc.CancelSession(context.Background(), CancelSessionCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)

	err = f.svc.DeleteSession(context.Background(), DeleteSessionCommand{Key: testKey, RequesterID: 5})
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.DeleteSession(context.Background(), DeleteSessionCommand{Key: testKey, RequesterID: testHost}))
	_, err = f.svc.GetSession(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPhaseStatusAndTallyQueries(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 3, nil)

	_, err := f.svc.Tally(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrInvalidPhase)

	f.clock.Advance(time.Hour)
	status, err := f.svc.PhaseStatus(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSignup, status.Phase)
	assert.Equal(t, 23*time.Hour, status.Remaining)
}

func TestDebugSyntheticPlayers(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 2, nil)

	_, err := f.svc.AddSyntheticPlayer(context.Background(), AddSyntheticPlayerCommand{Key: testKey, RequesterID: testHost, Name: "Dummy1"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.SetDebugMode(context.Background(), SetDebugModeCommand{Key: testKey, RequesterID: 1, Enabled: true})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.SetDebugMode(context.Background(), SetDebugModeCommand{Key: testKey, RequesterID: testHost, Enabled: true})
	require.NoError(t, err)

	var dummies []domain.PlayerID
	for i := 1; i <= 3; i++ {
		player, err := f.svc.AddSyntheticPlayer(context.Background(), AddSyntheticPlayerCommand{Key: testKey, RequesterID: testHost, Name: fmt.Sprintf("Dummy%d", i)})
		require.NoError(t, err)
		dummies = append(dummies, player.ID)
	}
	assert.Equal(t, []domain.PlayerID{-1, -2, -3}, dummies)

	_, err = f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 1})
	require.NoError(t, err)
	session, err := f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)
	for _, dummy := range session.SyntheticPlayers {
		assert.NotEmpty(t, dummy.Role)
	}
	assert.ElementsMatch(t, []domain.PlayerID{1, 2}, f.notifier.usersMessaged())

	_, err = f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: -1, TargetID: 1})
	require.NoError(t, err)

	_, err = f.svc.SetPlayerStatus(context.Background(), SetPlayerStatusCommand{Key: testKey, RequesterID: testHost, PlayerID: -2, Status: domain.PlayerDead})
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.get(testKey).MajorityThreshold())

	_, err = f.svc.AssignDebugRole(context.Background(), AssignDebugRoleCommand{Key: testKey, RequesterID: testHost, PlayerID: -3, Role: "Cop"})
	require.NoError(t, err)
	dummy, ok := f.store.get(testKey).Player(-3)
	require.True(t, ok)
	assert.Equal(t, "Cop", dummy.Role)

	session, err = f.svc.SetDebugMode(context.Background(), SetDebugModeCommand{Key: testKey, RequesterID: testHost, Enabled: false})
	require.NoError(t, err)
	assert.Empty(t, session.SyntheticPlayers)
	assert.Empty(t, session.Votes)
}

func TestSyntheticVotesCanHammer(t *testing.T) {
	f := newServiceFixture(t)
	f.signup(t, 2, nil)
	_, err := f.svc.SetDebugMode(context.Background(), SetDebugModeCommand{Key: testKey, RequesterID: testHost, Enabled: true})
	require.NoError(t, err)
	for _, name := range []string{"Dummy1", "Dummy2", "Dummy3"} {
		_, err := f.svc.AddSyntheticPlayer(context.Background(), AddSyntheticPlayerCommand{Key: testKey, RequesterID: testHost, Name: name})
		require.NoError(t, err)
	}
	_, err = f.svc.SetFactionCounts(context.Background(), SetFactionCountsCommand{Key: testKey, RequesterID: testHost, MafiaCount: 1})
	require.NoError(t, err)
	_, err = f.svc.AssignRolesAndStart(context.Background(), AssignRolesCommand{Key: testKey, RequesterID: testHost})
	require.NoError(t, err)

	_, err = f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: testHost, Voter: "p2", Target: "p1"})
	require.ErrorIs(t, err, domain.ErrNotInRoster)

	_, err = f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: 1, Voter: "Dummy1", Target: "p1"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	result, err := f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: testHost, Voter: "Dummy1", Target: "p1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(1), result.Session.Votes[-1])

	result, err = f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: testHost, Voter: "Dummy1"})
	require.NoError(t, err)
	assert.Empty(t, result.Session.Votes)

	for _, name := range []string{"Dummy1", "Dummy2"} {
		result, err = f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: testHost, Voter: name, Target: "1"})
		require.NoError(t, err)
		assert.False(t, result.Hammered)
	}
	result, err = f.svc.SyntheticVote(context.Background(), SyntheticVoteCommand{Key: testKey, RequesterID: testHost, Voter: "Dummy3", Target: "p1"})
	require.NoError(t, err)
	assert.True(t, result.Hammered)
	assert.Equal(t, domain.PhaseTwilight, f.store.get(testKey).Phase.Name)
}

func TestConcurrentVotesAreNotLost(t *testing.T) {
	f := newServiceFixture(t)
	const players = 20
	f.startDay(t, players, 3)
	f.store.delay = 2 * time.Millisecond

	var wg sync.WaitGroup
	errs := make(chan error, players)
	for voter := domain.PlayerID(1); voter <= players; voter++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := voter%5 + 1
			_, err := f.svc.CastVote(context.Background(), CastVoteCommand{Key: testKey, VoterID: voter, TargetID: target})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	session := f.store.get(testKey)
	assert.Len(t, session.Votes, players)
	assert.Equal(t, domain.PhaseDay, session.Phase.Name)
	assert.Equal(t, 0, f.svc.locks.size())
}
