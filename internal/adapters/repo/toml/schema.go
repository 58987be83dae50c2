package toml

import (
	"fmt"

	"github.com/bnema/mafia-engine/internal/adapters/repo/schema"
)

type fileSchema struct {
	Version  int                    `toml:"version"`
	Sessions []schema.SessionRecord `toml:"sessions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = schema.CurrentVersion
	}
}

func (s fileSchema) validateVersion() error {
	if err := schema.ValidateVersion(s.Version); err != nil {
		return fmt.Errorf("sessions file: %w", err)
	}

	return nil
}

func (s fileSchema) indexOf(key string) int {
	for i := range s.Sessions {
		if s.Sessions[i].Key == key {
			return i
		}
	}
	return -1
}
