package player

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/0xTas/FLUTE-WELL/internal/articulate"
	"github.com/0xTas/FLUTE-WELL/internal/keymap"
	"github.com/0xTas/FLUTE-WELL/internal/monophony"
	"github.com/0xTas/FLUTE-WELL/internal/schedule"
	"github.com/0xTas/FLUTE-WELL/internal/score"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// Player turns a MIDI file into a timed key-press performance on the
// in-game flute. A Player is built once, loads one song at a time, and can
// replay the loaded song; Load and Play must not be called concurrently.
type Player struct {
	options contracts.PlayerOptions
	log     contracts.Logger
	warns   *contracts.Warnings
	mapper  *keymap.Mapper
	shaper  *articulate.Shaper

	mu    sync.Mutex
	model *score.Model
	plan  *schedule.Plan
	sched *schedule.Scheduler
}

// New creates a Player with the specified options.
// Configuration errors surface here, before any MIDI file is touched.
//
// opts ...contracts.Option: A variadic list of option functions to customize the player configuration.
//
// Returns:
//   - *Player: The configured player.
//   - error: An error wrapping ErrConfig if the options are invalid.
func New(opts ...contracts.Option) (*Player, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	log := options.Logger
	warns := contracts.NewWarnings(log)

	mapper, err := keymap.NewMapper(keymap.DefaultTable(), options.Range, options.Transpose, options.OutOfRange, log, warns)
	if err != nil {
		return nil, err
	}

	shaper, err := articulate.NewShaper(options.Articulation, options.HoldPercentage, options.HoldSet, log)
	if err != nil {
		return nil, err
	}

	return &Player{
		options: options,
		log:     log,
		warns:   warns,
		mapper:  mapper,
		shaper:  shaper,
	}, nil
}

// Load reads a MIDI file from disk and computes the playback plan for it.
//
// path string: The path of the .mid file to load.
//
// Returns:
//   - error: A ParseError if the file cannot be decoded, or a fatal mapping error.
func (p *Player) Load(path string) error {
	model, err := score.ParseFile(path, p.log, p.warns)
	if err != nil {
		return err
	}
	return p.loadModel(model)
}

// LoadData computes the playback plan for in-memory MIDI bytes.
//
// data []byte: The raw Standard MIDI File contents.
// title string: The title used when the file names no track.
//
// Returns:
//   - error: A ParseError if the bytes cannot be decoded, or a fatal mapping error.
func (p *Player) LoadData(data []byte, title string) error {
	model, err := score.Parse(data, title, p.log, p.warns)
	if err != nil {
		return err
	}
	return p.loadModel(model)
}

// loadModel runs the pipeline: reduce to a melody, assign fingerings,
// articulate, and lay the result out on the wall clock.
func (p *Player) loadModel(model *score.Model) error {
	melody := monophony.Reduce(model.Tracks, p.options.Selection, p.options.MergeRepeats, p.log, p.warns)

	fingered, err := p.mapper.Map(melody)
	if err != nil {
		return err
	}

	articulated := p.shaper.Shape(fingered)
	plan := schedule.BuildPlan(articulated, model.Tempo, p.log, p.warns)

	p.mu.Lock()
	p.model = model
	p.plan = plan
	p.sched = nil
	p.mu.Unlock()

	p.log.Info("song loaded",
		p.log.Field().
			String("title", model.Title).
			Int("notes", model.NoteCount()).
			Int("intervals", len(plan.Actions)/2).
			Duration("duration", plan.Total).
			Float64("bpm", model.Tempo.At(0).BPM()))
	return nil
}

// Play performs the loaded song and blocks until playback completes or is
// stopped. The input engine is created here so parse and mapping problems
// surface before any key is touched.
//
// Returns:
//   - error: Nil on completion; an error wrapping ErrCancelled after Stop;
//     an engine error if input injection is unavailable.
func (p *Player) Play() error {
	p.mu.Lock()
	plan := p.plan
	model := p.model
	if plan == nil {
		p.mu.Unlock()
		return errors.New("no song loaded")
	}
	if p.sched != nil {
		switch p.sched.State() {
		case contracts.StateArmed, contracts.StateRunning:
			p.mu.Unlock()
			return errors.New("playback already in progress")
		}
	}

	engine, err := newEngine(&p.options)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	sched := schedule.NewScheduler(engine, p.mapper.AllKeys(), p.options.DelayStart, p.options.DryRun, p.log, p.warns)
	p.sched = sched
	p.mu.Unlock()

	if p.options.DryRun {
		p.preview(plan)
	}

	p.log.Info("starting playback",
		p.log.Field().
			String("title", model.Title).
			Int("actions", len(plan.Actions)).
			Duration("duration", plan.Total).
			Bool("dry_run", p.options.DryRun))

	playErr := sched.Run(plan)
	closeErr := engine.Close()

	if playErr == nil && closeErr == nil {
		p.log.Info("playback finished", p.log.Field().String("title", model.Title))
	}
	return multierr.Append(playErr, closeErr)
}

// Run loads the file and plays it in one call.
//
// path string: The path of the .mid file to perform.
//
// Returns:
//   - error: The first error from loading or playback.
func (p *Player) Run(path string) error {
	if err := p.Load(path); err != nil {
		return err
	}
	return p.Play()
}

// Stop cancels playback in progress. The scheduler releases every held key
// before Play returns. Safe to call from any goroutine, any number of times.
func (p *Player) Stop() {
	p.mu.Lock()
	sched := p.sched
	p.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
}

// State reports the playback lifecycle state.
func (p *Player) State() contracts.PlayState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sched == nil {
		return contracts.StateIdle
	}
	return p.sched.State()
}

// Warnings returns every non-fatal condition the pipeline recorded, in
// arrival order.
func (p *Player) Warnings() []contracts.Warning {
	return p.warns.All()
}

// Plan returns a copy of the computed action sequence, empty before Load.
func (p *Player) Plan() []contracts.ScheduledAction {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.plan == nil {
		return nil
	}
	out := make([]contracts.ScheduledAction, len(p.plan.Actions))
	copy(out, p.plan.Actions)
	return out
}

// Duration reports the wall-clock length of the loaded song, zero before Load.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.plan == nil {
		return 0
	}
	return p.plan.Total
}

// preview prints the head of the plan so a dry run shows what would play.
func (p *Player) preview(plan *schedule.Plan) {
	for i, a := range plan.Actions {
		if i >= p.options.DryRunMax {
			p.log.Info("plan preview truncated",
				p.log.Field().Int("shown", p.options.DryRunMax).Int("total", len(plan.Actions)))
			return
		}
		p.log.Info("plan action",
			p.log.Field().
				Int("index", i).
				Duration("at", a.At).
				String("action", a.Kind.String()).
				String("note", a.Label))
	}
}
