package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/mafia-engine/internal/domain"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type inMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionKey]domain.Session
	puts     int
	delay    time.Duration
	failPut  map[domain.SessionKey]error
}

func newInMemorySessionStore() *inMemorySessionStore {
	return &inMemorySessionStore{
		sessions: map[domain.SessionKey]domain.Session{},
		failPut:  map[domain.SessionKey]error{},
	}
}

func (s *inMemorySessionStore) Get(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	s.mu.Lock()
	session, ok := s.sessions[key]
	delay := s.delay
	s.mu.Unlock()

	// Widens the window between load and persist for race tests.
	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, key)
	}
	return session.Clone(), nil
}

func (s *inMemorySessionStore) Put(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failPut[session.Key]; err != nil {
		return err
	}
	s.sessions[session.Key] = session.Clone()
	s.puts++
	return nil
}

func (s *inMemorySessionStore) Delete(_ context.Context, key domain.SessionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

func (s *inMemorySessionStore) List(_ context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *inMemorySessionStore) seed(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Key] = session.Clone()
}

func (s *inMemorySessionStore) get(key domain.SessionKey) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[key].Clone()
}

func (s *inMemorySessionStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

type sentMessage struct {
	Key    domain.SessionKey
	Player domain.PlayerID
	Text   string
}

type recordingNotifier struct {
	mu             sync.Mutex
	channel        []sentMessage
	users          []sentMessage
	privateGroups  [][]domain.PlayerID
	rosterUpdates  int
	tallyUpdates   int
	privateCounter int
}

func (n *recordingNotifier) NotifyChannel(_ context.Context, key domain.SessionKey, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channel = append(n.channel, sentMessage{Key: key, Text: text})
	return nil
}

func (n *recordingNotifier) NotifyUser(_ context.Context, playerID domain.PlayerID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, sentMessage{Player: playerID, Text: text})
	return nil
}

func (n *recordingNotifier) RequestPrivateChannel(_ context.Context, _ domain.SessionKey, members []domain.PlayerID) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.privateCounter++
	n.privateGroups = append(n.privateGroups, members)
	return fmt.Sprintf("private-%d", n.privateCounter), nil
}

func (n *recordingNotifier) UpdateRenderedRoster(context.Context, domain.SessionKey) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rosterUpdates++
	return nil
}

func (n *recordingNotifier) UpdateRenderedTally(context.Context, domain.SessionKey) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tallyUpdates++
	return nil
}

func (n *recordingNotifier) channelTexts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.channel))
	for _, msg := range n.channel {
		out = append(out, msg.Text)
	}
	return out
}

func (n *recordingNotifier) usersMessaged() []domain.PlayerID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.PlayerID, 0, len(n.users))
	for _, msg := range n.users {
		out = append(out, msg.Player)
	}
	return out
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyChannel(ctx context.Context, key domain.SessionKey, text string) error {
	return m.Called(ctx, key, text).Error(0)
}

func (m *mockNotifier) NotifyUser(ctx context.Context, playerID domain.PlayerID, text string) error {
	return m.Called(ctx, playerID, text).Error(0)
}

func (m *mockNotifier) RequestPrivateChannel(ctx context.Context, key domain.SessionKey, members []domain.PlayerID) (string, error) {
	args := m.Called(ctx, key, members)
	return args.String(0), args.Error(1)
}

func (m *mockNotifier) UpdateRenderedRoster(ctx context.Context, key domain.SessionKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockNotifier) UpdateRenderedTally(ctx context.Context, key domain.SessionKey) error {
	return m.Called(ctx, key).Error(0)
}

func mockAnyContext() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

type scriptedResolver struct {
	mu       sync.Mutex
	dayEnd   func(domain.Session) (domain.Session, []string, error)
	nightEnd func(domain.Session) (domain.Session, []string, error)
	calls    int
}

func (r *scriptedResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *scriptedResolver) ResolveDayEnd(_ context.Context, session domain.Session) (domain.Session, []string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.dayEnd == nil {
		return session, nil, nil
	}
	return r.dayEnd(session)
}

func (r *scriptedResolver) ResolveNightEnd(_ context.Context, session domain.Session) (domain.Session, []string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.nightEnd == nil {
		return session, nil, nil
	}
	return r.nightEnd(session)
}
