package domain

import (
	"fmt"
	"strings"
)

type JoinResult struct {
	Promoted bool
	Evicted  *PlayerID
	NoOp     bool
}

func (s *Session) requireSignupOpen() error {
	if s.Phase.Name != PhaseSignup {
		return fmt.Errorf("%w: signups are not open during %s", ErrInvalidPhase, s.Phase.Name)
	}
	if s.Phase.DeadlineHandled {
		return fmt.Errorf("%w: signups are closed", ErrInvalidPhase)
	}
	return nil
}

func (s Session) fullSlots() int {
	count := 0
	for _, player := range s.Players {
		if !player.Tentative {
			count++
		}
	}
	return count
}

// mostRecentTentative returns the index in Players of the latest tentative
// signup other than exclude.
func (s Session) mostRecentTentative(exclude PlayerID) (int, bool) {
	found := -1
	for i, player := range s.Players {
		if !player.Tentative || player.ID == exclude {
			continue
		}
		if found < 0 || player.JoinSeq > s.Players[found].JoinSeq {
			found = i
		}
	}
	return found, found >= 0
}

func (s Session) rosterIndex(id PlayerID) int {
	for i, player := range s.Players {
		if player.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) Join(id PlayerID, displayName string) (JoinResult, error) {
	if err := s.requireSignupOpen(); err != nil {
		return JoinResult{}, err
	}

	idx := s.rosterIndex(id)
	if idx >= 0 && !s.Players[idx].Tentative {
		return JoinResult{NoOp: true}, nil
	}

	result := JoinResult{}
	if limit := s.Config.MaxPlayers; limit != nil {
		// Tentative players hold seats too. With every seat confirmed there is
		// nobody to evict, so the join fails instead of exceeding the cap.
		if s.fullSlots() >= *limit {
			return JoinResult{}, fmt.Errorf("%w: %d of %d slots taken", ErrRosterFull, s.fullSlots(), *limit)
		}
		if idx < 0 && len(s.Players) >= *limit {
			if evictIdx, ok := s.mostRecentTentative(id); ok {
				evicted := s.Players[evictIdx].ID
				s.Players = append(s.Players[:evictIdx], s.Players[evictIdx+1:]...)
				result.Evicted = &evicted
			}
		}
	}

	if idx = s.rosterIndex(id); idx >= 0 {
		s.Players[idx].Tentative = false
		if displayName != "" {
			s.Players[idx].DisplayName = displayName
		}
		result.Promoted = true
		return result, nil
	}

	s.Players = append(s.Players, Player{
		ID:          id,
		Status:      PlayerAlive,
		DisplayName: displayName,
		JoinSeq:     s.nextSeq(),
	})
	return result, nil
}

func (s *Session) JoinTentative(id PlayerID, displayName string) error {
	if err := s.requireSignupOpen(); err != nil {
		return err
	}
	if _, ok := s.Player(id); ok {
		return fmt.Errorf("%w: player %d", ErrAlreadyJoined, id)
	}
	s.Players = append(s.Players, Player{
		ID:          id,
		Status:      PlayerAlive,
		Tentative:   true,
		DisplayName: displayName,
		JoinSeq:     s.nextSeq(),
	})
	return nil
}

func (s *Session) Withdraw(id PlayerID) error {
	if err := s.requireSignupOpen(); err != nil {
		return err
	}
	var removed, removedSynthetic bool
	s.Players, removed = removePlayer(s.Players, id)
	s.SyntheticPlayers, removedSynthetic = removePlayer(s.SyntheticPlayers, id)
	if !removed && !removedSynthetic {
		return fmt.Errorf("%w: player %d", ErrNotInRoster, id)
	}
	delete(s.Votes, id)
	return nil
}

func (s *Session) AddSyntheticPlayer(name, role string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("synthetic player name is required")
	}
	if _, ok := s.PlayerByName(name); ok {
		return Player{}, fmt.Errorf("%w: %q", ErrAlreadyJoined, name)
	}

	var lowest PlayerID
	for _, player := range s.AllPlayers() {
		lowest = min(lowest, player.ID)
	}

	player := Player{
		ID:          lowest - 1,
		Status:      PlayerAlive,
		Role:        role,
		DisplayName: name,
		JoinSeq:     s.nextSeq(),
	}
	s.SyntheticPlayers = append(s.SyntheticPlayers, player)
	return player, nil
}

func (s *Session) RemoveSyntheticPlayer(name string) (Player, error) {
	for i, player := range s.SyntheticPlayers {
		if player.DisplayName == name {
			s.SyntheticPlayers = append(s.SyntheticPlayers[:i], s.SyntheticPlayers[i+1:]...)
			s.forgetVotesOf(player.ID)
			return player, nil
		}
	}
	return Player{}, fmt.Errorf("%w: synthetic player %q", ErrNotInRoster, name)
}

func (s *Session) ClearSyntheticPlayers() {
	for _, player := range s.SyntheticPlayers {
		s.forgetVotesOf(player.ID)
	}
	s.SyntheticPlayers = nil
}

func (s *Session) SetPlayerStatus(id PlayerID, status PlayerStatus) error {
	if status != PlayerAlive && status != PlayerDead {
		return fmt.Errorf("unknown player status %q", status)
	}
	if !s.updatePlayer(id, func(p *Player) { p.Status = status }) {
		return fmt.Errorf("%w: player %d", ErrNotInRoster, id)
	}
	if status == PlayerDead {
		s.forgetVotesOf(id)
	}
	return nil
}

func (s *Session) SetPlayerRole(id PlayerID, role string) error {
	if !s.updatePlayer(id, func(p *Player) { p.Role = role }) {
		return fmt.Errorf("%w: player %d", ErrNotInRoster, id)
	}
	return nil
}

func (s *Session) forgetVotesOf(id PlayerID) {
	for voter, target := range s.Votes {
		if voter == id || target == id {
			delete(s.Votes, voter)
		}
	}
}

func removePlayer(players []Player, id PlayerID) ([]Player, bool) {
	for i, player := range players {
		if player.ID == id {
			return append(players[:i], players[i+1:]...), true
		}
	}
	return players, false
}
