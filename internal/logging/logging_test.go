package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLevel(t *testing.T) {
	log := Setup("debug", "json", false)
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
}

func TestSetupInvalidLevelDefaultsToInfo(t *testing.T) {
	log := Setup("nonsense", "json", false)
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", log.GetLevel())
	}
}
