package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidPhase       = errors.New("invalid phase")
	ErrRosterFull         = errors.New("roster full")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrNotInRoster        = errors.New("not in roster")
	ErrVoterNotAlive      = errors.New("voter not alive")
	ErrTargetNotAlive     = errors.New("target not alive")
	ErrNoActiveVote       = errors.New("no active vote")
	ErrRolesNotConfigured = errors.New("roles not configured")
	ErrInvalidCount       = errors.New("invalid count")
	ErrInvalidDuration    = errors.New("invalid duration")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrSessionNotFound, "not-found"},
	{ErrForbidden, "forbidden"},
	{ErrInvalidPhase, "invalid-phase"},
	{ErrRosterFull, "roster-full"},
	{ErrAlreadyJoined, "already-joined"},
	{ErrNotInRoster, "not-in-roster"},
	{ErrVoterNotAlive, "voter-not-alive"},
	{ErrTargetNotAlive, "target-not-alive"},
	{ErrNoActiveVote, "no-active-vote"},
	{ErrRolesNotConfigured, "roles-not-configured"},
	{ErrInvalidCount, "invalid-count"},
	{ErrInvalidDuration, "invalid-duration"},
}

// ErrorCode returns the stable code of the first domain error wrapped by err,
// or "internal" when err carries none.
func ErrorCode(err error) string {
	for _, candidate := range errorCodes {
		if errors.Is(err, candidate.err) {
			return candidate.code
		}
	}
	return "internal"
}
