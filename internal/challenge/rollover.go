package challenge

import (
	"context"

	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/repository"
)

// RolloverJob pre-generates the current day's challenge set for every
// known player. Generation is lazy on first access anyway; running
// this on a schedule keeps the first request after midnight cheap and
// gives the rollover a single observable log line.
type RolloverJob struct {
	engine  *Engine
	players repository.Progression
}

// NewRolloverJob creates a rollover job for the scheduler
func NewRolloverJob(engine *Engine, players repository.Progression) *RolloverJob {
	return &RolloverJob{engine: engine, players: players}
}

// Process implements worker.Job
func (j *RolloverJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	ids, err := j.players.ListPlayerIDs(ctx)
	if err != nil {
		log.Error(LogMsgRolloverList, "error", err)
		return err
	}

	ensured := 0
	for _, id := range ids {
		rec, err := j.players.GetPlayer(ctx, id)
		if err != nil {
			log.Warn(LogMsgRolloverPlayer, "player_id", id, "error", err)
			continue
		}
		if _, err := j.engine.GetChallengeSet(ctx, id, rec.SelectedSkills); err != nil {
			log.Warn(LogMsgRolloverPlayer, "player_id", id, "error", err)
			continue
		}
		ensured++
	}

	log.Info(LogMsgRolloverCompleted, "players", ensured, "date_key", j.engine.clk.DateKey())
	return nil
}
