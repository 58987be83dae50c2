package domain

import (
	"fmt"
	"sort"
	"time"
)

type TallyEntry struct {
	Target PlayerID
	Voters []PlayerID
	Count  int
	// ToHammer is how many more votes the target needs to reach majority.
	ToHammer int
}

type Tally struct {
	Day        int
	Alive      int
	Majority   int
	Entries    []TallyEntry
	NotVoting  []PlayerID
	Hammered   bool
	HammeredID PlayerID
}

// MajorityThreshold is floor(alive/2)+1.
func (s Session) MajorityThreshold() int {
	return len(s.AlivePlayers())/2 + 1
}

func (s *Session) CastVote(voter, target PlayerID) error {
	if s.Phase.Name != PhaseDay {
		return fmt.Errorf("%w: voting is only open during the day", ErrInvalidPhase)
	}
	if p, ok := s.Player(voter); !ok || !p.Alive() {
		return fmt.Errorf("%w: player %d", ErrVoterNotAlive, voter)
	}
	if p, ok := s.Player(target); !ok || !p.Alive() {
		return fmt.Errorf("%w: player %d", ErrTargetNotAlive, target)
	}
	if s.Votes == nil {
		s.Votes = map[PlayerID]PlayerID{}
	}
	s.Votes[voter] = target
	return nil
}

func (s *Session) RetractVote(voter PlayerID) error {
	if s.Phase.Name != PhaseDay {
		return fmt.Errorf("%w: voting is only open during the day", ErrInvalidPhase)
	}
	if _, ok := s.Votes[voter]; !ok {
		return fmt.Errorf("%w: player %d", ErrNoActiveVote, voter)
	}
	delete(s.Votes, voter)
	return nil
}

// ApplyHammer moves the day to twilight when target has reached majority.
func (s *Session) ApplyHammer(target PlayerID, now time.Time) (bool, error) {
	if s.Phase.Name != PhaseDay {
		return false, nil
	}
	if s.VotesFor(target) < s.MajorityThreshold() {
		return false, nil
	}
	if err := s.EnterTwilight(now); err != nil {
		return false, err
	}
	return true, nil
}

func (s Session) VotesFor(target PlayerID) int {
	count := 0
	for voter, votedFor := range s.Votes {
		if votedFor != target {
			continue
		}
		if p, ok := s.Player(voter); ok && p.Alive() {
			count++
		}
	}
	return count
}

// Tally counts only votes cast by and against alive players.
func (s Session) Tally() Tally {
	alive := s.AlivePlayers()
	majority := len(alive)/2 + 1

	aliveSet := make(map[PlayerID]struct{}, len(alive))
	for _, player := range alive {
		aliveSet[player.ID] = struct{}{}
	}

	byTarget := map[PlayerID][]PlayerID{}
	for voter, target := range s.Votes {
		if _, ok := aliveSet[voter]; !ok {
			continue
		}
		if _, ok := aliveSet[target]; !ok {
			continue
		}
		byTarget[target] = append(byTarget[target], voter)
	}

	tally := Tally{
		Day:      s.Phase.Number,
		Alive:    len(alive),
		Majority: majority,
	}
	for target, voters := range byTarget {
		sort.Slice(voters, func(i, j int) bool { return voters[i] < voters[j] })
		entry := TallyEntry{
			Target:   target,
			Voters:   voters,
			Count:    len(voters),
			ToHammer: max(0, majority-len(voters)),
		}
		if entry.ToHammer == 0 {
			tally.Hammered = true
			tally.HammeredID = target
		}
		tally.Entries = append(tally.Entries, entry)
	}
	sort.Slice(tally.Entries, func(i, j int) bool {
		if tally.Entries[i].Count != tally.Entries[j].Count {
			return tally.Entries[i].Count > tally.Entries[j].Count
		}
		return tally.Entries[i].Target < tally.Entries[j].Target
	})

	for _, player := range alive {
		if _, voted := s.Votes[player.ID]; !voted {
			tally.NotVoting = append(tally.NotVoting, player.ID)
		}
	}
	return tally
}
