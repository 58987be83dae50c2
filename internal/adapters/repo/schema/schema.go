// Package schema is the versioned on-disk shape of a session shared by every store.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bnema/mafia-engine/internal/domain"
)

const CurrentVersion = 1

type SessionRecord struct {
	Key              string            `toml:"key" json:"key"`
	GuildID          string            `toml:"guild_id,omitempty" json:"guild_id,omitempty"`
	HostID           int64             `toml:"host_id" json:"host_id"`
	Config           ConfigRecord      `toml:"config" json:"config"`
	Players          []PlayerRecord    `toml:"players,omitempty" json:"players,omitempty"`
	SyntheticPlayers []PlayerRecord    `toml:"synthetic_players,omitempty" json:"synthetic_players,omitempty"`
	Factions         FactionsRecord    `toml:"factions" json:"factions"`
	MafiaCount       *int              `toml:"mafia_count,omitempty" json:"mafia_count,omitempty"`
	NeutralCount     *int              `toml:"neutral_count,omitempty" json:"neutral_count,omitempty"`
	Phase            PhaseRecord       `toml:"phase" json:"phase"`
	Votes            []VoteRecord      `toml:"votes,omitempty" json:"votes,omitempty"`
	Refs             map[string]string `toml:"refs,omitempty" json:"refs,omitempty"`
	DebugMode        bool              `toml:"debug_mode,omitempty" json:"debug_mode,omitempty"`
	NextSeq          uint64            `toml:"next_seq" json:"next_seq"`
}

type ConfigRecord struct {
	MinPlayers       int    `toml:"min_players" json:"min_players"`
	MaxPlayers       *int   `toml:"max_players,omitempty" json:"max_players,omitempty"`
	SignupDeadline   string `toml:"signup_deadline" json:"signup_deadline"`
	DayDurationSec   int64  `toml:"day_duration_sec" json:"day_duration_sec"`
	NightDurationSec int64  `toml:"night_duration_sec" json:"night_duration_sec"`
	NeutralsTeamed   bool   `toml:"neutrals_teamed" json:"neutrals_teamed"`
	RoleDensity      string `toml:"role_density" json:"role_density"`
	GameLength       string `toml:"game_length" json:"game_length"`
}

type PlayerRecord struct {
	ID          int64  `toml:"id" json:"id"`
	Status      string `toml:"status" json:"status"`
	Tentative   bool   `toml:"tentative,omitempty" json:"tentative,omitempty"`
	Role        string `toml:"role,omitempty" json:"role,omitempty"`
	DisplayName string `toml:"display_name,omitempty" json:"display_name,omitempty"`
	JoinSeq     uint64 `toml:"join_seq" json:"join_seq"`
}

type FactionsRecord struct {
	Mafia   []int64 `toml:"mafia,omitempty" json:"mafia,omitempty"`
	Neutral []int64 `toml:"neutral,omitempty" json:"neutral,omitempty"`
	Town    []int64 `toml:"town,omitempty" json:"town,omitempty"`
}

type PhaseRecord struct {
	Name            string `toml:"name" json:"name"`
	Number          int    `toml:"number" json:"number"`
	EndsAt          string `toml:"ends_at" json:"ends_at"`
	DeadlineHandled bool   `toml:"deadline_handled,omitempty" json:"deadline_handled,omitempty"`
}

type VoteRecord struct {
	Voter  int64 `toml:"voter" json:"voter"`
	Target int64 `toml:"target" json:"target"`
}

// Envelope is the JSON payload stored by the SQL backends.
type Envelope struct {
	Version int           `json:"version"`
	Session SessionRecord `json:"session"`
}

func ValidateVersion(version int) error {
	if version > CurrentVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", version, CurrentVersion)
	}
	return nil
}

func EncodeJSON(session domain.Session) ([]byte, error) {
	data, err := json.Marshal(Envelope{Version: CurrentVersion, Session: FromDomain(session)})
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.Key, err)
	}
	return data, nil
}

func DecodeJSON(data []byte) (domain.Session, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if err := ValidateVersion(envelope.Version); err != nil {
		return domain.Session{}, err
	}
	return ToDomain(envelope.Session), nil
}

func FromDomain(session domain.Session) SessionRecord {
	votes := make([]VoteRecord, 0, len(session.Votes))
	for voter, target := range session.Votes {
		votes = append(votes, VoteRecord{Voter: int64(voter), Target: int64(target)})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].Voter < votes[j].Voter })
	if len(votes) == 0 {
		votes = nil
	}

	var refs map[string]string
	if len(session.Refs) > 0 {
		refs = make(map[string]string, len(session.Refs))
		for name, ref := range session.Refs {
			refs[name] = ref
		}
	}

	return SessionRecord{
		Key:     string(session.Key),
		GuildID: session.GuildID,
		HostID:  int64(session.HostID),
		Config: ConfigRecord{
			MinPlayers:       session.Config.MinPlayers,
			MaxPlayers:       copyInt(session.Config.MaxPlayers),
			SignupDeadline:   formatTime(session.Config.SignupDeadline),
			DayDurationSec:   int64(session.Config.DayDuration / time.Second),
			NightDurationSec: int64(session.Config.NightDuration / time.Second),
			NeutralsTeamed:   session.Config.NeutralsTeamed,
			RoleDensity:      string(session.Config.RoleDensity),
			GameLength:       string(session.Config.GameLength),
		},
		Players:          fromPlayers(session.Players),
		SyntheticPlayers: fromPlayers(session.SyntheticPlayers),
		Factions: FactionsRecord{
			Mafia:   fromIDs(session.Factions.Mafia),
			Neutral: fromIDs(session.Factions.Neutral),
			Town:    fromIDs(session.Factions.Town),
		},
		MafiaCount:   copyInt(session.MafiaCount),
		NeutralCount: copyInt(session.NeutralCount),
		Phase: PhaseRecord{
			Name:            string(session.Phase.Name),
			Number:          session.Phase.Number,
			EndsAt:          formatTime(session.Phase.EndsAt),
			DeadlineHandled: session.Phase.DeadlineHandled,
		},
		Votes:     votes,
		Refs:      refs,
		DebugMode: session.DebugMode,
		NextSeq:   session.NextSeq,
	}
}

// ToDomain always returns non-nil Votes and Refs maps.
func ToDomain(record SessionRecord) domain.Session {
	votes := make(map[domain.PlayerID]domain.PlayerID, len(record.Votes))
	for _, vote := range record.Votes {
		votes[domain.PlayerID(vote.Voter)] = domain.PlayerID(vote.Target)
	}
	refs := make(map[string]string, len(record.Refs))
	for name, ref := range record.Refs {
		refs[name] = ref
	}

	return domain.Session{
		Key:     domain.SessionKey(record.Key),
		GuildID: record.GuildID,
		HostID:  domain.PlayerID(record.HostID),
		Config: domain.SessionConfig{
			MinPlayers:     record.Config.MinPlayers,
			MaxPlayers:     copyInt(record.Config.MaxPlayers),
			SignupDeadline: parseTime(record.Config.SignupDeadline),
			DayDuration:    time.Duration(record.Config.DayDurationSec) * time.Second,
			NightDuration:  time.Duration(record.Config.NightDurationSec) * time.Second,
			NeutralsTeamed: record.Config.NeutralsTeamed,
			RoleDensity:    domain.RoleDensity(record.Config.RoleDensity),
			GameLength:     domain.GameLength(record.Config.GameLength),
		},
		Players:          toPlayers(record.Players),
		SyntheticPlayers: toPlayers(record.SyntheticPlayers),
		Factions: domain.Factions{
			Mafia:   toIDs(record.Factions.Mafia),
			Neutral: toIDs(record.Factions.Neutral),
			Town:    toIDs(record.Factions.Town),
		},
		MafiaCount:   copyInt(record.MafiaCount),
		NeutralCount: copyInt(record.NeutralCount),
		Phase: domain.Phase{
			Name:            domain.PhaseName(record.Phase.Name),
			Number:          record.Phase.Number,
			EndsAt:          parseTime(record.Phase.EndsAt),
			DeadlineHandled: record.Phase.DeadlineHandled,
		},
		Votes:     votes,
		Refs:      refs,
		DebugMode: record.DebugMode,
		NextSeq:   record.NextSeq,
	}
}

func fromPlayers(players []domain.Player) []PlayerRecord {
	if len(players) == 0 {
		return nil
	}
	out := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerRecord{
			ID:          int64(p.ID),
			Status:      string(p.Status),
			Tentative:   p.Tentative,
			Role:        p.Role,
			DisplayName: p.DisplayName,
			JoinSeq:     p.JoinSeq,
		})
	}
	return out
}

func toPlayers(records []PlayerRecord) []domain.Player {
	if len(records) == 0 {
		return nil
	}
	out := make([]domain.Player, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Player{
			ID:          domain.PlayerID(r.ID),
			Status:      domain.PlayerStatus(r.Status),
			Tentative:   r.Tentative,
			Role:        r.Role,
			DisplayName: r.DisplayName,
			JoinSeq:     r.JoinSeq,
		})
	}
	return out
}

func fromIDs(ids []domain.PlayerID) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toIDs(ids []int64) []domain.PlayerID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]domain.PlayerID, len(ids))
	for i, id := range ids {
		out[i] = domain.PlayerID(id)
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
