package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xTas/FLUTE-WELL/internal/logger"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
	"github.com/0xTas/FLUTE-WELL/sdk/player"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		articulation string
		holdPct      float64
		transpose    int
		policy       string
		outOfRange   string
		merge        bool
		delaySec     float64
		dryRun       bool
		dryRunMax    int
		serialDev    string
		baud         int
		verbose      bool
	)

	flag.StringVar(&articulation, "articulation", "portato", "articulation style: legato, tenuto, portato, staccato, staccatissimo or custom")
	flag.StringVar(&articulation, "a", "portato", "shorthand for -articulation")
	flag.Float64Var(&holdPct, "hold-percentage", 0, "note hold fraction in (0,1], requires -articulation custom")
	flag.IntVar(&transpose, "transpose", 0, "shift every note by this many semitones before mapping")
	flag.IntVar(&transpose, "t", 0, "shorthand for -transpose")
	flag.StringVar(&policy, "policy", "highest", "chord selection policy: highest, lowest, loudest, first-onset or last-onset")
	flag.StringVar(&policy, "p", "highest", "shorthand for -policy")
	flag.StringVar(&outOfRange, "out-of-range", "drop", "out-of-range handling after octave folding: drop or clamp")
	flag.BoolVar(&merge, "merge", false, "merge adjacent intervals of the same pitch into one hold")
	flag.BoolVar(&merge, "m", false, "shorthand for -merge")
	flag.Float64Var(&delaySec, "delay-start", 0, "seconds to wait before the first key press")
	flag.BoolVar(&dryRun, "dry-run", false, "log the schedule instead of pressing keys")
	flag.BoolVar(&dryRun, "n", false, "shorthand for -dry-run")
	flag.IntVar(&dryRunMax, "dry-run-max", 80, "maximum number of actions to print in a dry run")
	flag.StringVar(&serialDev, "serial", "", "serial port device for an external key rig instead of the local keyboard")
	flag.IntVar(&baud, "baud", 115200, "serial baud rate, used with -serial")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&verbose, "v", false, "shorthand for -verbose")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <song.mid>\n\nflags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	path := flag.Arg(0)

	holdSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "hold-percentage" {
			holdSet = true
		}
	})

	selection, err := contracts.ParseSelectionPolicy(policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	rangePolicy, err := contracts.ParseOutOfRangePolicy(outOfRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	style, err := contracts.ParseArticulationStyle(articulation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logger.NewZapLogger()

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithSelectionPolicy(selection),
		contracts.WithOutOfRangePolicy(rangePolicy),
		contracts.WithArticulation(style),
		contracts.WithTranspose(transpose),
		contracts.WithMergeRepeats(merge),
		contracts.WithDelayStart(time.Duration(delaySec * float64(time.Second))),
		contracts.WithDryRun(dryRun),
		contracts.WithDryRunMax(dryRunMax),
	}
	if holdSet {
		opts = append(opts, contracts.WithHoldPercentage(holdPct))
	}
	if serialDev != "" {
		opts = append(opts, contracts.WithSerialPort(serialDev, baud))
	}
	if verbose {
		opts = append(opts, contracts.WithLogLevel(contracts.DebugLevel))
	}

	p, err := player.New(opts...)
	if err != nil {
		log.Error("invalid configuration", log.Field().Error("error", err))
		return 1
	}

	if err := p.Load(path); err != nil {
		log.Error("failed to load song", log.Field().String("path", path), log.Field().Error("error", err))
		return 1
	}
	if n := len(p.Warnings()); n > 0 {
		log.Warn("song loaded with warnings", log.Field().Int("count", n))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn("received signal, stopping playback", log.Field().String("signal", sig.String()))
		p.Stop()
	}()

	playErr := p.Play()
	reportWarnings(p, log)

	if playErr != nil {
		if errors.Is(playErr, contracts.ErrCancelled) {
			log.Warn("playback cancelled", log.Field().Error("error", playErr))
		} else {
			log.Error("playback failed", log.Field().Error("error", playErr))
		}
		return 1
	}

	log.Info("playback finished", log.Field().String("path", path))
	return 0
}

// reportWarnings prints every warning collected while loading and playing the
// song, so a silently thinned-out melody is never a mystery.
func reportWarnings(p *player.Player, log contracts.Logger) {
	warns := p.Warnings()
	if len(warns) == 0 {
		return
	}
	log.Warn("playback produced warnings", log.Field().Int("count", len(warns)))
	for _, w := range warns {
		log.Warn(w.Message, log.Field().String("stage", w.Stage))
	}
}
