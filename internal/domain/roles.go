package domain

import "fmt"

const (
	RoleMafia         = "Mafia"
	RoleNeutral       = "Neutral"
	RoleVanillaTownie = "Vanilla Townie"
)

var (
	NeutralRoles   = []string{"Jester", "Executioner", "Serial Killer", "Arsonist"}
	SpecialTownies = []string{"Cop", "Doctor", "Vigilante", "Investigator"}
)

// Random is the randomness source of role assignment. *math/rand/v2.Rand satisfies it.
type Random interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

type Assignment struct {
	Factions Factions
	Roles    map[PlayerID]string
}

func ValidateFactionCounts(total, mafia, neutral int) error {
	if mafia < 1 {
		return fmt.Errorf("%w: at least one mafia is required", ErrInvalidCount)
	}
	if neutral < 0 {
		return fmt.Errorf("%w: neutral count cannot be negative", ErrInvalidCount)
	}
	if mafia >= total {
		return fmt.Errorf("%w: %d mafia for %d players", ErrInvalidCount, mafia, total)
	}
	if mafia+neutral >= total {
		return fmt.Errorf("%w: %d mafia and %d neutrals leave no town among %d players", ErrInvalidCount, mafia, neutral, total)
	}
	return nil
}

// AssignRoles draws a uniform permutation of ids and splits it into
// contiguous mafia, neutral and town groups.
func AssignRoles(ids []PlayerID, mafia, neutral int, density RoleDensity, rng Random) (Assignment, error) {
	if err := ValidateFactionCounts(len(ids), mafia, neutral); err != nil {
		return Assignment{}, err
	}

	order := make([]PlayerID, len(ids))
	copy(order, ids)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	assignment := Assignment{
		Factions: Factions{
			Mafia:   orNil(order[:mafia:mafia]),
			Neutral: orNil(order[mafia : mafia+neutral : mafia+neutral]),
			Town:    orNil(order[mafia+neutral:]),
		},
		Roles: make(map[PlayerID]string, len(order)),
	}

	for _, id := range assignment.Factions.Mafia {
		assignment.Roles[id] = RoleMafia
	}
	for _, id := range assignment.Factions.Neutral {
		if density == DensityVanilla {
			assignment.Roles[id] = RoleNeutral
			continue
		}
		assignment.Roles[id] = NeutralRoles[rng.IntN(len(NeutralRoles))]
	}
	for i, id := range assignment.Factions.Town {
		if townSpecialAt(i, density) {
			assignment.Roles[id] = SpecialTownies[rng.IntN(len(SpecialTownies))]
			continue
		}
		assignment.Roles[id] = RoleVanillaTownie
	}
	return assignment, nil
}

// orNil keeps an empty faction nil so stored and fresh sessions compare equal.
func orNil(ids []PlayerID) []PlayerID {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func townSpecialAt(i int, density RoleDensity) bool {
	if i == 0 {
		return false
	}
	switch density {
	case DensityLight:
		return i%4 == 0
	case DensityHeavy:
		return i%2 == 0
	default:
		return false
	}
}

// ApplyAssignment writes roles and factions onto the roster and confirms tentative signups.
func (s *Session) ApplyAssignment(assignment Assignment) {
	for i := range s.Players {
		s.Players[i].Role = assignment.Roles[s.Players[i].ID]
		s.Players[i].Tentative = false
	}
	for i := range s.SyntheticPlayers {
		s.SyntheticPlayers[i].Role = assignment.Roles[s.SyntheticPlayers[i].ID]
	}
	s.Factions = assignment.Factions
}

func (s Session) PlayerIDs() []PlayerID {
	all := s.AllPlayers()
	ids := make([]PlayerID, 0, len(all))
	for _, player := range all {
		ids = append(ids, player.ID)
	}
	return ids
}
