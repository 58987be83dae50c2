package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type SessionKey string

type PlayerID int64

type PlayerStatus string

const (
	PlayerAlive PlayerStatus = "alive"
	PlayerDead  PlayerStatus = "dead"
)

type Player struct {
	ID          PlayerID
	Status      PlayerStatus
	Tentative   bool
	Role        string
	DisplayName string
	JoinSeq     uint64
}

func (p Player) Alive() bool {
	return p.Status == PlayerAlive
}

func (p Player) Synthetic() bool {
	return p.ID < 0
}

type Factions struct {
	Mafia   []PlayerID
	Neutral []PlayerID
	Town    []PlayerID
}

// Ref names stored in Session.Refs.
const (
	RefSignupMessage  = "signup_message"
	RefTallyMessage   = "tally_message"
	RefMafiaChannel   = "mafia_channel"
	RefNeutralChannel = "neutral_channel"
)

type Session struct {
	Key              SessionKey
	GuildID          string
	HostID           PlayerID
	Config           SessionConfig
	Players          []Player
	SyntheticPlayers []Player
	Factions         Factions
	MafiaCount       *int
	NeutralCount     *int
	Phase            Phase
	Votes            map[PlayerID]PlayerID
	Refs             map[string]string
	DebugMode        bool
	NextSeq          uint64
}

func NewSession(key SessionKey, guildID string, hostID PlayerID, cfg SessionConfig) Session {
	return Session{
		Key:     key,
		GuildID: guildID,
		HostID:  hostID,
		Config:  cfg,
		Phase: Phase{
			Name:   PhaseSignup,
			Number: 0,
			EndsAt: cfg.SignupDeadline,
		},
		Votes: map[PlayerID]PlayerID{},
		Refs:  map[string]string{},
	}
}

func (s Session) IsHost(id PlayerID) bool {
	return s.HostID == id
}

// Clone returns a copy that shares no slices or maps with s.
func (s Session) Clone() Session {
	out := s
	out.Players = slices.Clone(s.Players)
	out.SyntheticPlayers = slices.Clone(s.SyntheticPlayers)
	out.Factions = Factions{
		Mafia:   slices.Clone(s.Factions.Mafia),
		Neutral: slices.Clone(s.Factions.Neutral),
		Town:    slices.Clone(s.Factions.Town),
	}
	out.MafiaCount = cloneInt(s.MafiaCount)
	out.NeutralCount = cloneInt(s.NeutralCount)
	out.Config.MaxPlayers = cloneInt(s.Config.MaxPlayers)
	if s.Votes != nil {
		out.Votes = make(map[PlayerID]PlayerID, len(s.Votes))
		for voter, target := range s.Votes {
			out.Votes[voter] = target
		}
	}
	if s.Refs != nil {
		out.Refs = make(map[string]string, len(s.Refs))
		for name, ref := range s.Refs {
			out.Refs[name] = ref
		}
	}
	return out
}

// AllPlayers returns real players followed by synthetic ones.
func (s Session) AllPlayers() []Player {
	all := make([]Player, 0, len(s.Players)+len(s.SyntheticPlayers))
	all = append(all, s.Players...)
	all = append(all, s.SyntheticPlayers...)
	return all
}

func (s Session) AlivePlayers() []Player {
	alive := make([]Player, 0, len(s.Players)+len(s.SyntheticPlayers))
	for _, player := range s.AllPlayers() {
		if player.Alive() {
			alive = append(alive, player)
		}
	}
	return alive
}

func (s Session) Player(id PlayerID) (Player, bool) {
	for _, player := range s.AllPlayers() {
		if player.ID == id {
			return player, true
		}
	}
	return Player{}, false
}

func (s Session) PlayerByName(name string) (Player, bool) {
	for _, player := range s.AllPlayers() {
		if player.DisplayName != "" && player.DisplayName == name {
			return player, true
		}
	}
	return Player{}, false
}

// LookupPlayer resolves a numeric id or a display name.
func (s Session) LookupPlayer(ref string) (Player, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if player, ok := s.Player(PlayerID(id)); ok {
			return player, true
		}
	}
	return s.PlayerByName(ref)
}

func (s Session) DisplayName(id PlayerID) string {
	if player, ok := s.Player(id); ok && player.DisplayName != "" {
		return player.DisplayName
	}
	return fmt.Sprintf("player %d", id)
}

// RosterSize counts every occupied slot, synthetic and tentative included.
func (s Session) RosterSize() int {
	return len(s.Players) + len(s.SyntheticPlayers)
}

func (s *Session) updatePlayer(id PlayerID, update func(*Player)) bool {
	for i := range s.Players {
		if s.Players[i].ID == id {
			update(&s.Players[i])
			return true
		}
	}
	for i := range s.SyntheticPlayers {
		if s.SyntheticPlayers[i].ID == id {
			update(&s.SyntheticPlayers[i])
			return true
		}
	}
	return false
}

func (s *Session) SetRef(name, ref string) {
	if s.Refs == nil {
		s.Refs = map[string]string{}
	}
	s.Refs[name] = ref
}

func (s *Session) nextSeq() uint64 {
	s.NextSeq++
	return s.NextSeq
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// IntPtr is a helper for optional counts.
func IntPtr(v int) *int {
	return &v
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
