package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

const (
	tracerName           = "github.com/bnema/mafia-engine/internal/application"
	defaultNotifyTimeout = 10 * time.Second
)

type Service struct {
	store         ports.SessionStore
	notifier      ports.Notifier
	clock         ports.Clock
	rng           domain.Random
	locks         *keyLocker
	logger        zerolog.Logger
	tracer        trace.Tracer
	notifyTimeout time.Duration
}

type Option func(*Service)

func WithRandom(rng domain.Random) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifyTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

func NewService(store ports.SessionStore, notifier ports.Notifier, clock ports.Clock, opts ...Option) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	s := &Service{
		store:         store,
		notifier:      notifier,
		clock:         clock,
		rng:           globalRandom{},
		locks:         newKeyLocker(),
		logger:        zerolog.Nop(),
		tracer:        otel.Tracer(tracerName),
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) StartSession(ctx context.Context, cmd StartSessionCommand) (domain.Session, error) {
	now := s.now()
	cfg, err := buildSessionConfig(cmd, now)
	if err != nil {
		return domain.Session{}, err
	}

	var session domain.Session
	var out outbox
	err = s.locked(ctx, "start", cmd.Key, func(ctx context.Context) error {
		existing, err := s.store.Get(ctx, cmd.Key)
		switch {
		case err == nil && !existing.Terminal():
			return fmt.Errorf("%w: a game is already running in %s", domain.ErrInvalidPhase, cmd.Key)
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			return fmt.Errorf("get session: %w", err)
		}

		session = domain.NewSession(cmd.Key, cmd.GuildID, cmd.HostID, cfg)
		if err := s.store.Put(ctx, session); err != nil {
			return fmt.Errorf("put session: %w", err)
		}

		out.channel(cmd.Key, signupOpenedMessage(session))
		out.roster(cmd.Key)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.dispatch(ctx, cmd.Key, out)
	return session, nil
}

func buildSessionConfig(cmd StartSessionCommand, now time.Time) (domain.SessionConfig, error) {
	cfg := domain.DefaultSessionConfig(now)
	if cmd.MinPlayers > 0 {
		cfg.MinPlayers = cmd.MinPlayers
	}
	cfg.MaxPlayers = cmd.MaxPlayers
	if cmd.RoleDensity != "" {
		cfg.RoleDensity = cmd.RoleDensity
	}
	if cmd.GameLength != "" {
		cfg.GameLength = cmd.GameLength
	}
	cfg.NeutralsTeamed = cmd.NeutralsTeamed

	cfg.DayDuration, cfg.NightDuration = cfg.GameLength.PhaseDurations()
	if cmd.DayDuration > 0 {
		cfg.DayDuration = cmd.DayDuration
	}
	if cmd.NightDuration > 0 {
		cfg.NightDuration = cmd.NightDuration
	}

	signup := domain.DefaultSignupDuration
	if cmd.SignupDuration != 0 {
		if cmd.SignupDuration < domain.MinSignupDuration || cmd.SignupDuration > domain.MaxSignupDuration {
			return domain.SessionConfig{}, fmt.Errorf("%w: signup must last between 5 minutes and 14 days", domain.ErrInvalidDuration)
		}
		signup = cmd.SignupDuration
	}
	cfg.SignupDeadline = now.Add(signup).UTC().Truncate(time.Second)

	if err := cfg.Validate(); err != nil {
		return domain.SessionConfig{}, err
	}
	return cfg, nil
}

func (s *Service) Join(ctx context.Context, cmd JoinCommand) (JoinResult, error) {
	var result JoinResult
	session, err := s.mutate(ctx, "join", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		joined, err := session.Join(cmd.PlayerID, cmd.DisplayName)
		if err != nil {
			return err
		}
		result = JoinResult{Promoted: joined.Promoted, NoOp: joined.NoOp, Evicted: joined.Evicted}
		if joined.Evicted != nil {
			out.user(*joined.Evicted, evictedMessage(cmd.Key))
		}
		out.roster(cmd.Key)
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}
	result.Session = session
	return result, nil
}

func (s *Service) JoinTentative(ctx context.Context, cmd JoinCommand) (domain.Session, error) {
	return s.mutate(ctx, "join_tentative", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := session.JoinTentative(cmd.PlayerID, cmd.DisplayName); err != nil {
			return err
		}
		out.roster(cmd.Key)
		return nil
	})
}

func (s *Service) Withdraw(ctx context.Context, cmd WithdrawCommand) (domain.Session, error) {
	return s.mutate(ctx, "withdraw", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := session.Withdraw(cmd.PlayerID); err != nil {
			return err
		}
		out.roster(cmd.Key)
		return nil
	})
}

func (s *Service) SetFactionCounts(ctx context.Context, cmd SetFactionCountsCommand) (domain.Session, error) {
	return s.mutate(ctx, "set_faction_counts", cmd.Key, func(_ context.Context, session *domain.Session, _ *outbox) error {
		if err := requireHost(*session, cmd.RequesterID); err != nil {
			return err
		}
		if session.Phase.Name != domain.PhaseSignup {
			return fmt.Errorf("%w: roles can only be configured during signup", domain.ErrInvalidPhase)
		}
		if err := domain.ValidateFactionCounts(session.RosterSize(), cmd.MafiaCount, cmd.NeutralCount); err != nil {
			return err
		}
		session.MafiaCount = domain.IntPtr(cmd.MafiaCount)
		session.NeutralCount = domain.IntPtr(cmd.NeutralCount)
		session.Config.NeutralsTeamed = cmd.NeutralsTeamed
		return nil
	})
}

func (s *Service) AssignRolesAndStart(ctx context.Context, cmd AssignRolesCommand) (domain.Session, error) {
	var channels []channelRequest
	session, err := s.mutate(ctx, "assign_roles", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireHost(*session, cmd.RequesterID); err != nil {
			return err
		}
		if session.Phase.Name != domain.PhaseSignup {
			return fmt.Errorf("%w: the game has already started", domain.ErrInvalidPhase)
		}
		if session.MafiaCount == nil || session.NeutralCount == nil {
			return domain.ErrRolesNotConfigured
		}

		assignment, err := domain.AssignRoles(session.PlayerIDs(), *session.MafiaCount, *session.NeutralCount, session.Config.RoleDensity, s.rng)
		if err != nil {
			return err
		}
		session.ApplyAssignment(assignment)
		session.EnterDay(s.now())

		for _, player := range session.Players {
			out.user(player.ID, roleMessage(*session, player))
		}
		if len(assignment.Factions.Mafia) >= 2 {
			channels = append(channels, channelRequest{ref: domain.RefMafiaChannel, members: assignment.Factions.Mafia})
		}
		if session.Config.NeutralsTeamed && len(assignment.Factions.Neutral) >= 2 {
			channels = append(channels, channelRequest{ref: domain.RefNeutralChannel, members: assignment.Factions.Neutral})
		}
		out.channel(cmd.Key, phaseStartedMessage(*session))
		out.roster(cmd.Key)
		out.tally(cmd.Key)
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return s.openPrivateChannels(ctx, session, channels), nil
}

type channelRequest struct {
	ref     string
	members []domain.PlayerID
}

// openPrivateChannels runs after the started game is persisted and records the
// refs it gets back in a second write. Failures only get logged.
func (s *Service) openPrivateChannels(ctx context.Context, session domain.Session, requests []channelRequest) domain.Session {
	if s.notifier == nil || len(requests) == 0 {
		return session
	}
	base := context.WithoutCancel(ctx)
	opened := map[string]string{}
	for _, req := range requests {
		humans := make([]domain.PlayerID, 0, len(req.members))
		for _, id := range req.members {
			if id > 0 {
				humans = append(humans, id)
			}
		}

		reqCtx, cancel := context.WithTimeout(base, s.notifyTimeout)
		channel, err := s.notifier.RequestPrivateChannel(reqCtx, session.Key, humans)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Str("session", string(session.Key)).Str("ref", req.ref).Msg("request private channel")
			continue
		}
		opened[req.ref] = channel
	}
	if len(opened) == 0 {
		return session
	}

	updated, err := s.mutate(base, "record_private_channels", session.Key, func(_ context.Context, session *domain.Session, _ *outbox) error {
		for ref, channel := range opened {
			session.SetRef(ref, channel)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session", string(session.Key)).Msg("record private channels")
		return session
	}
	return updated
}

func (s *Service) AdvancePhaseManually(ctx context.Context, cmd AdvancePhaseCommand) (domain.Session, error) {
	return s.mutate(ctx, "advance_phase", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireHost(*session, cmd.RequesterID); err != nil {
			return err
		}
		if err := session.AdvanceTo(cmd.Target, s.now()); err != nil {
			return err
		}
		out.channel(cmd.Key, phaseStartedMessage(*session))
		out.tally(cmd.Key)
		return nil
	})
}

func (s *Service) CastVote(ctx context.Context, cmd CastVoteCommand) (VoteResult, error) {
	var hammered bool
	session, err := s.mutate(ctx, "cast_vote", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		var err error
		hammered, err = s.castVote(session, cmd.VoterID, cmd.TargetID, out)
		return err
	})
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Session: session, Tally: session.Tally(), Hammered: hammered}, nil
}

// castVote records a vote and moves the day to twilight when it reaches majority.
func (s *Service) castVote(session *domain.Session, voter, target domain.PlayerID, out *outbox) (bool, error) {
	if err := session.CastVote(voter, target); err != nil {
		return false, err
	}
	hammered, err := session.ApplyHammer(target, s.now())
	if err != nil {
		return false, err
	}
	out.tally(session.Key)
	if hammered {
		out.channel(session.Key, hammerMessage(*session, target))
		out.user(session.HostID, hostHammerMessage(*session, target))
	}
	return hammered, nil
}

func (s *Service) RetractVote(ctx context.Context, cmd RetractVoteCommand) (VoteResult, error) {
	session, err := s.mutate(ctx, "retract_vote", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := session.RetractVote(cmd.VoterID); err != nil {
			return err
		}
		out.tally(cmd.Key)
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Session: session, Tally: session.Tally()}, nil
}

func (s *Service) CancelSession(ctx context.Context, cmd CancelSessionCommand) (domain.Session, error) {
	return s.mutate(ctx, "cancel", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if !cmd.Elevated {
			if err := requireHost(*session, cmd.RequesterID); err != nil {
				return err
			}
		}
		if err := session.Cancel(); err != nil {
			return err
		}
		out.channel(cmd.Key, cancelledMessage(cmd.RequesterID))
		return nil
	})
}

func (s *Service) DeleteSession(ctx context.Context, cmd DeleteSessionCommand) error {
	return s.locked(ctx, "delete", cmd.Key, func(ctx context.Context) error {
		session, err := s.store.Get(ctx, cmd.Key)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if !cmd.Elevated {
			if err := requireHost(session, cmd.RequesterID); err != nil {
				return err
			}
		}
		if !session.Terminal() {
			return fmt.Errorf("%w: cancel the game before deleting it", domain.ErrInvalidPhase)
		}
		if err := s.store.Delete(ctx, cmd.Key); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (s *Service) GetSession(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	session, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) PhaseStatus(ctx context.Context, key domain.SessionKey) (PhaseStatus, error) {
	session, err := s.GetSession(ctx, key)
	if err != nil {
		return PhaseStatus{}, err
	}
	return PhaseStatus{
		Key:             session.Key,
		Phase:           session.Phase.Name,
		Number:          session.Phase.Number,
		EndsAt:          session.Phase.EndsAt,
		Remaining:       session.Phase.Remaining(s.now()),
		DeadlineHandled: session.Phase.DeadlineHandled,
	}, nil
}

func (s *Service) Tally(ctx context.Context, key domain.SessionKey) (domain.Tally, error) {
	session, err := s.GetSession(ctx, key)
	if err != nil {
		return domain.Tally{}, err
	}
	if session.Phase.Name != domain.PhaseDay && session.Phase.Name != domain.PhaseTwilight {
		return domain.Tally{}, fmt.Errorf("%w: there is no vote during %s", domain.ErrInvalidPhase, session.Phase.Name)
	}
	return session.Tally(), nil
}

type mutateFunc func(ctx context.Context, session *domain.Session, out *outbox) error

// mutate holds the key lock across load, fn and persist, then dispatches the
// collected notices. Nothing is persisted when fn fails.
func (s *Service) mutate(ctx context.Context, op string, key domain.SessionKey, fn mutateFunc) (domain.Session, error) {
	var session domain.Session
	var out outbox
	err := s.locked(ctx, op, key, func(ctx context.Context) error {
		loaded, err := s.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if err := fn(ctx, &loaded, &out); err != nil {
			return err
		}
		if err := s.store.Put(ctx, loaded); err != nil {
			return fmt.Errorf("put session: %w", err)
		}
		session = loaded
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.dispatch(ctx, key, out)
	return session, nil
}

func (s *Service) locked(ctx context.Context, op string, key domain.SessionKey, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "session."+op, trace.WithAttributes(attribute.String("session.key", string(key))))
	defer span.End()

	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("lock session %s: %w", key, err)
	}
	defer unlock()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.ErrorCode(err))
		return err
	}
	return nil
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func requireHost(session domain.Session, requester domain.PlayerID) error {
	if !session.IsHost(requester) {
		return fmt.Errorf("%w: only the host can do this", domain.ErrForbidden)
	}
	return nil
}

type globalRandom struct{}

func (globalRandom) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

func (globalRandom) IntN(n int) int { return rand.IntN(n) }
