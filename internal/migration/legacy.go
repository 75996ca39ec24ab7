package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// Source looks up a player's pre-rework save blob. Lookups that find
// nothing return (nil, nil); the player simply starts fresh.
type Source interface {
	Lookup(ctx context.Context, playerID string) (*domain.LegacyPlayerBlob, error)
}

// FileSource reads the whole legacy save file once, lazily, and serves
// lookups from memory. The legacy format is a single JSON object keyed
// by player ID.
type FileSource struct {
	path string

	once  sync.Once
	blobs map[string]domain.LegacyPlayerBlob
	err   error
}

// NewFileSource creates a source over the legacy save file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Lookup returns the legacy blob for the player, or nil when absent
func (s *FileSource) Lookup(_ context.Context, playerID string) (*domain.LegacyPlayerBlob, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	blob, ok := s.blobs[playerID]
	if !ok {
		return nil, nil
	}
	return &blob, nil
}

func (s *FileSource) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.err = fmt.Errorf("failed to read legacy save file: %w", err)
		return
	}
	if err := json.Unmarshal(data, &s.blobs); err != nil {
		s.err = fmt.Errorf("failed to parse legacy save file: %w", err)
	}
}

// Apply populates rec from a legacy blob. It is a one-shot adapter for
// a player's first contact: when rec already shows progress in the
// current format the whole migration is skipped. Unknown skill names
// in the blob are logged and skipped, never fatal. Returns whether the
// record was mutated.
func Apply(ctx context.Context, rec *domain.PlayerRecord, blob *domain.LegacyPlayerBlob, hardCap int) bool {
	if blob == nil {
		return false
	}

	log := logger.FromContext(ctx)

	if rec.HasAnyProgress() {
		log.Info(LogMsgMigrationSkipped, "player_id", rec.PlayerID)
		return false
	}

	for name, entry := range blob.Skills {
		skill, err := domain.ParseSkill(name)
		if err != nil {
			log.Warn(LogMsgUnknownLegacySkill, "player_id", rec.PlayerID, "skill", name)
			continue
		}

		level := entry.Level
		if level > hardCap {
			level = hardCap
		}
		if level < 0 {
			level = 0
		}
		xp := entry.XP
		if xp < 0 {
			xp = 0
		}

		rec.Skills[skill] = domain.SkillState{
			Level:              level,
			XP:                 xp,
			Prestige:           entry.Prestige,
			LastAbilityUseTick: entry.LastAbilityUse,
		}
	}

	if blob.ParagonSkill != "" {
		skill, err := domain.ParseSkill(blob.ParagonSkill)
		if err != nil {
			log.Warn(LogMsgUnknownLegacySkill, "player_id", rec.PlayerID, "skill", blob.ParagonSkill)
		} else {
			rec.ParagonSkill = &skill
		}
	}

	for _, name := range blob.SelectedSkills {
		if len(rec.SelectedSkills) >= domain.MaxSelectedSkills {
			break
		}
		skill, err := domain.ParseSkill(name)
		if err != nil {
			log.Warn(LogMsgUnknownLegacySkill, "player_id", rec.PlayerID, "skill", name)
			continue
		}
		if !rec.IsSelected(skill) {
			rec.SelectedSkills = append(rec.SelectedSkills, skill)
		}
	}

	for k, v := range blob.Toggles {
		rec.Toggles[k] = v
	}
	for k, v := range blob.AchievementStats {
		if v > 0 {
			rec.AchievementCounters[k] = v
		}
	}

	log.Info(LogMsgMigrationApplied,
		"player_id", rec.PlayerID,
		"skills", len(blob.Skills),
		"selected", len(rec.SelectedSkills))
	return true
}
