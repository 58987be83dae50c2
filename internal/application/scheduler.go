package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/mafia-engine/internal/domain"
)

const (
	DefaultPollInterval    = 5 * time.Second
	DefaultTickConcurrency = 4
)

type SchedulerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// Scheduler advances every session whose phase deadline has passed.
type Scheduler struct {
	svc         *Service
	resolver    PhaseResolver
	interval    time.Duration
	concurrency int
}

func NewScheduler(svc *Service, resolver PhaseResolver, cfg SchedulerConfig) *Scheduler {
	if resolver == nil {
		resolver = NoopResolver{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultTickConcurrency
	}

	return &Scheduler{
		svc:         svc,
		resolver:    resolver,
		interval:    cfg.PollInterval,
		concurrency: cfg.Concurrency,
	}
}

// Run ticks until ctx is cancelled. A failed tick is logged and the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.svc.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.svc.logger.Info().Msg("scheduler stopped")
			return nil
		case <-ticker.C:
			report, err := s.Tick(ctx)
			if err != nil {
				s.svc.logger.Error().Err(err).Msg("scheduler tick")
				continue
			}
			if report.Due > 0 {
				s.svc.logger.Debug().
					Int("due", report.Due).
					Int("processed", report.Processed).
					Int("failed", report.Failed).
					Msg("scheduler tick")
			}
		}
	}
}

// Tick processes every due session once. Failures are isolated per session.
func (s *Scheduler) Tick(ctx context.Context) (TickReport, error) {
	ctx, span := s.svc.tracer.Start(ctx, "scheduler.tick")
	defer span.End()

	sessions, err := s.svc.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return TickReport{}, fmt.Errorf("list sessions: %w", err)
	}

	now := s.svc.now()
	report := TickReport{Checked: len(sessions)}
	var processed, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, session := range sessions {
		if !session.Phase.Due(now) {
			continue
		}
		report.Due++

		key := session.Key
		g.Go(func() error {
			if err := s.advance(ctx, key); err != nil {
				failed.Add(1)
				s.svc.logger.Error().Err(err).Str("session", string(key)).Msg("advance session")
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report.Processed = int(processed.Load())
	report.Failed = int(failed.Load())
	span.SetAttributes(
		attribute.Int("sessions.due", report.Due),
		attribute.Int("sessions.failed", report.Failed),
	)
	return report, nil
}

func (s *Scheduler) advance(ctx context.Context, key domain.SessionKey) error {
	var out outbox
	err := s.svc.locked(ctx, "expire", key, func(ctx context.Context) error {
		session, err := s.svc.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		// A command may have moved the session since the listing.
		now := s.svc.now()
		if !session.Phase.Due(now) {
			return nil
		}

		next, err := s.expire(ctx, session, now, &out)
		if err != nil {
			return err
		}
		if err := s.svc.store.Put(ctx, next); err != nil {
			return fmt.Errorf("put session: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.svc.dispatch(ctx, key, out)
	return nil
}

func (s *Scheduler) expire(ctx context.Context, session domain.Session, now time.Time, out *outbox) (domain.Session, error) {
	switch session.Phase.Name {
	case domain.PhaseSignup:
		return s.expireSignup(session, out)
	case domain.PhaseDay:
		return s.resolve(ctx, session, s.resolver.ResolveDayEnd, out)
	case domain.PhaseNight:
		return s.resolve(ctx, session, s.resolver.ResolveNightEnd, out)
	case domain.PhaseTwilight:
		resolved, err := s.resolve(ctx, session, s.resolver.ResolveDayEnd, out)
		if err != nil {
			return domain.Session{}, err
		}
		if resolved.Phase.Name == domain.PhaseTwilight {
			resolved.EnterNight(now)
			out.channel(resolved.Key, phaseStartedMessage(resolved))
			out.tally(resolved.Key)
		}
		return resolved, nil
	default:
		return domain.Session{}, fmt.Errorf("%w: nothing expires in %s", domain.ErrInvalidPhase, session.Phase.Name)
	}
}

func (s *Scheduler) expireSignup(session domain.Session, out *outbox) (domain.Session, error) {
	if session.RosterSize() >= session.Config.MinPlayers {
		session.CloseSignup()
		out.channel(session.Key, signupClosedMessage(session))
		out.user(session.HostID, hostRoleSetupMessage(session))
		out.roster(session.Key)
		return session, nil
	}

	if !session.SignupExtended() {
		if err := session.ExtendSignup(); err != nil {
			return domain.Session{}, err
		}
		out.channel(session.Key, signupExtendedMessage(session))
		return session, nil
	}

	if err := session.Cancel(); err != nil {
		return domain.Session{}, err
	}
	out.channel(session.Key, signupCancelledMessage(session))
	return session, nil
}

type resolveFunc func(ctx context.Context, session domain.Session) (domain.Session, []string, error)

// resolve runs an end-of-phase hook. When the hook leaves the phase in place
// the expiry is marked handled so it fires once per phase.
func (s *Scheduler) resolve(ctx context.Context, session domain.Session, hook resolveFunc, out *outbox) (domain.Session, error) {
	before := session.Phase
	resolved, announcements, err := hook(ctx, session.Clone())
	if err != nil {
		return domain.Session{}, fmt.Errorf("resolve %s %d: %w", before.Name, before.Number, err)
	}
	for _, text := range announcements {
		out.channel(session.Key, text)
	}
	if resolved.Phase == before {
		if before.Name != domain.PhaseTwilight {
			out.channel(session.Key, phaseExpiredMessage(resolved))
		}
		resolved.MarkDeadlineHandled()
	}
	return resolved, nil
}
