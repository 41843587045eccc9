package schedule

import (
	"sort"
	"time"

	"github.com/0xTas/FLUTE-WELL/internal/score"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// minActionableHold is the shortest press-to-release gap worth dispatching.
// Below this the OS input queue coalesces the pair and the game sees nothing.
const minActionableHold = 2 * time.Millisecond

// Plan is the fully timed action sequence for one playback run.
type Plan struct {
	Actions []contracts.ScheduledAction
	Total   time.Duration
}

// BuildPlan converts articulated tick intervals into wall-clock actions,
// one press and one release per interval. Releases order before presses at
// the same instant so back-to-back notes never stack keys.
func BuildPlan(intervals []contracts.ArticulatedInterval, tempo *score.TempoMap, log contracts.Logger, warns *contracts.Warnings) *Plan {
	actions := make([]contracts.ScheduledAction, 0, 2*len(intervals))
	culled := 0

	for _, iv := range intervals {
		pressAt := tempo.TimeAt(iv.StartTick)
		releaseAt := tempo.TimeAt(iv.HoldEndTick)

		if releaseAt-pressAt < minActionableHold {
			warns.Addf("schedule", "culling %s at %s, %s hold is too short to press",
				iv.Fingering.Label, pressAt, releaseAt-pressAt)
			culled++
			continue
		}

		actions = append(actions,
			contracts.ScheduledAction{At: pressAt, Kind: contracts.Press, Keys: iv.Fingering.Keys, Label: iv.Fingering.Label},
			contracts.ScheduledAction{At: releaseAt, Kind: contracts.Release, Keys: iv.Fingering.Keys, Label: iv.Fingering.Label},
		)
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].At != actions[j].At {
			return actions[i].At < actions[j].At
		}
		return actions[i].Kind == contracts.Release && actions[j].Kind == contracts.Press
	})

	var total time.Duration
	if n := len(actions); n > 0 {
		total = actions[n-1].At
	}

	log.Debug("built playback plan",
		log.Field().
			Int("actions", len(actions)).
			Int("culled", culled).
			Duration("total", total))

	return &Plan{Actions: actions, Total: total}
}
