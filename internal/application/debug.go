package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/mafia-engine/internal/domain"
)

func (s *Service) SetDebugMode(ctx context.Context, cmd SetDebugModeCommand) (domain.Session, error) {
	return s.mutate(ctx, "debug_mode", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireHost(*session, cmd.RequesterID); err != nil {
			return err
		}
		if session.Terminal() {
			return fmt.Errorf("%w: session is %s", domain.ErrInvalidPhase, session.Phase.Name)
		}
		session.DebugMode = cmd.Enabled
		if !cmd.Enabled && len(session.SyntheticPlayers) > 0 {
			session.ClearSyntheticPlayers()
			out.roster(cmd.Key)
		}
		return nil
	})
}

func (s *Service) AddSyntheticPlayer(ctx context.Context, cmd AddSyntheticPlayerCommand) (domain.Player, error) {
	var added domain.Player
	_, err := s.mutate(ctx, "add_synthetic", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireDebug(*session, cmd.RequesterID); err != nil {
			return err
		}
		player, err := session.AddSyntheticPlayer(cmd.Name, cmd.Role)
		if err != nil {
			return err
		}
		added = player
		out.roster(cmd.Key)
		return nil
	})
	if err != nil {
		return domain.Player{}, err
	}
	return added, nil
}

func (s *Service) RemoveSyntheticPlayer(ctx context.Context, cmd RemoveSyntheticPlayerCommand) (domain.Session, error) {
	return s.mutate(ctx, "remove_synthetic", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireDebug(*session, cmd.RequesterID); err != nil {
			return err
		}
		if _, err := session.RemoveSyntheticPlayer(cmd.Name); err != nil {
			return err
		}
		out.roster(cmd.Key)
		return nil
	})
}

func (s *Service) SetPlayerStatus(ctx context.Context, cmd SetPlayerStatusCommand) (domain.Session, error) {
	return s.mutate(ctx, "set_player_status", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireDebug(*session, cmd.RequesterID); err != nil {
			return err
		}
		if err := session.SetPlayerStatus(cmd.PlayerID, cmd.Status); err != nil {
			return err
		}
		out.roster(cmd.Key)
		if session.Phase.Name == domain.PhaseDay {
			out.tally(cmd.Key)
		}
		return nil
	})
}

func (s *Service) AssignDebugRole(ctx context.Context, cmd AssignDebugRoleCommand) (domain.Session, error) {
	return s.mutate(ctx, "assign_debug_role", cmd.Key, func(_ context.Context, session *domain.Session, _ *outbox) error {
		if err := requireDebug(*session, cmd.RequesterID); err != nil {
			return err
		}
		return session.SetPlayerRole(cmd.PlayerID, cmd.Role)
	})
}

func (s *Service) SyntheticVote(ctx context.Context, cmd SyntheticVoteCommand) (VoteResult, error) {
	var hammered bool
	session, err := s.mutate(ctx, "synthetic_vote", cmd.Key, func(_ context.Context, session *domain.Session, out *outbox) error {
		if err := requireDebug(*session, cmd.RequesterID); err != nil {
			return err
		}
		voter, ok := session.PlayerByName(cmd.Voter)
		if !ok || !voter.Synthetic() {
			return fmt.Errorf("%w: no synthetic player named %q", domain.ErrNotInRoster, cmd.Voter)
		}

		if strings.TrimSpace(cmd.Target) == "" {
			if err := session.RetractVote(voter.ID); err != nil {
				return err
			}
			out.tally(cmd.Key)
			return nil
		}

		target, ok := session.LookupPlayer(cmd.Target)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrTargetNotAlive, cmd.Target)
		}
		var err error
		hammered, err = s.castVote(session, voter.ID, target.ID, out)
		return err
	})
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Session: session, Tally: session.Tally(), Hammered: hammered}, nil
}

func requireDebug(session domain.Session, requester domain.PlayerID) error {
	if err := requireHost(session, requester); err != nil {
		return err
	}
	if !session.DebugMode {
		return fmt.Errorf("%w: debug mode is off", domain.ErrForbidden)
	}
	if session.Terminal() {
		return fmt.Errorf("%w: session is %s", domain.ErrInvalidPhase, session.Phase.Name)
	}
	return nil
}
