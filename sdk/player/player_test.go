package player

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/0xTas/FLUTE-WELL/internal/logger"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// threeNoteSMF builds a file with three sequential quarter notes inside the
// flute range.
func threeNoteSMF(t *testing.T) []byte {
	t.Helper()

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 72, 96))
	tr.Add(480, midi.NoteOff(0, 72))
	tr.Add(0, midi.NoteOn(0, 74, 96))
	tr.Add(480, midi.NoteOff(0, 74))
	tr.Add(0, midi.NoteOn(0, 76, 96))
	tr.Add(480, midi.NoteOff(0, 76))
	tr.Close(0)
	require.NoError(t, sm.Add(tr))

	var buf bytes.Buffer
	_, err := sm.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func quietPlayer(t *testing.T, opts ...contracts.Option) *Player {
	t.Helper()

	p, err := New(append([]contracts.Option{contracts.WithLogger(logger.NewNop())}, opts...)...)
	require.NoError(t, err)
	return p
}

func TestNewDefaults(t *testing.T) {
	p := quietPlayer(t)

	assert.Equal(t, contracts.StateIdle, p.State())
	assert.Zero(t, p.Duration())
	assert.Nil(t, p.Plan())
	assert.Empty(t, p.Warnings())

	// Stopping before anything is loaded must be harmless.
	p.Stop()
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []contracts.Option
	}{
		{
			name: "custom articulation without hold",
			opts: []contracts.Option{contracts.WithArticulation(contracts.ArticulationCustom)},
		},
		{
			name: "hold with preset articulation",
			opts: []contracts.Option{contracts.WithHoldPercentage(0.5)},
		},
		{
			name: "hold above one",
			opts: []contracts.Option{
				contracts.WithArticulation(contracts.ArticulationCustom),
				contracts.WithHoldPercentage(1.5),
			},
		},
		{
			name: "negative start delay",
			opts: []contracts.Option{contracts.WithDelayStart(-time.Second)},
		},
		{
			name: "negative dry run preview limit",
			opts: []contracts.Option{contracts.WithDryRunMax(-1)},
		},
		{
			name: "range not covered by fingering table",
			opts: []contracts.Option{contracts.WithPitchRange(contracts.PitchRange{Low: 50, High: 93})},
		},
		{
			name: "inverted range",
			opts: []contracts.Option{contracts.WithPitchRange(contracts.PitchRange{Low: 93, High: 69})},
		},
		{
			name: "negative serial baud",
			opts: []contracts.Option{contracts.WithSerialPort("/dev/ttyUSB0", -9600)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]contracts.Option{contracts.WithLogger(logger.NewNop())}, tt.opts...)
			_, err := New(opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, contracts.ErrConfig)
		})
	}
}

func TestLoadDataBuildsPlan(t *testing.T) {
	p := quietPlayer(t)

	require.NoError(t, p.LoadData(threeNoteSMF(t), "scales"))

	plan := p.Plan()
	require.Len(t, plan, 6)
	assert.Equal(t, contracts.Press, plan[0].Kind)
	assert.Equal(t, time.Duration(0), plan[0].At)

	// Portato holds three quarters of each 500ms note, so the last
	// release lands at 2×500ms + 375ms.
	assert.Equal(t, 1375*time.Millisecond, p.Duration())
	assert.Equal(t, contracts.StateIdle, p.State())
}

func TestPlayWithoutLoadFails(t *testing.T) {
	p := quietPlayer(t, contracts.WithDryRun(true))

	err := p.Play()
	require.Error(t, err)
}

func TestPlayDryRunCompletesImmediately(t *testing.T) {
	p := quietPlayer(t,
		contracts.WithDryRun(true),
		contracts.WithDelayStart(time.Hour))

	require.NoError(t, p.LoadData(threeNoteSMF(t), "scales"))

	started := time.Now()
	require.NoError(t, p.Play())
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Equal(t, contracts.StateFinished, p.State())
}

func TestPlanIsDeterministic(t *testing.T) {
	data := threeNoteSMF(t)

	first := quietPlayer(t)
	require.NoError(t, first.LoadData(data, "scales"))

	second := quietPlayer(t)
	require.NoError(t, second.LoadData(data, "scales"))

	require.Equal(t, first.Plan(), second.Plan())
}

func TestLoadAccumulatesWarnings(t *testing.T) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 72, 96))
	tr.Close(960)
	require.NoError(t, sm.Add(tr))

	var buf bytes.Buffer
	_, err := sm.WriteTo(&buf)
	require.NoError(t, err)

	p := quietPlayer(t)
	require.NoError(t, p.LoadData(buf.Bytes(), "broken"))

	warns := p.Warnings()
	require.NotEmpty(t, warns)
	assert.Equal(t, "parse", warns[0].Stage)
}

func TestPlayRejectsUnsupportedOS(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("keyboard engine exists on windows")
	}

	p := quietPlayer(t)
	require.NoError(t, p.LoadData(threeNoteSMF(t), "scales"))

	err := p.Play()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOS)
}

func TestPlaySerialOpenFailureSurfaces(t *testing.T) {
	p := quietPlayer(t, contracts.WithSerialPort("/dev/flutewell-missing", 115200))
	require.NoError(t, p.LoadData(threeNoteSMF(t), "scales"))

	err := p.Play()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedOS)
}
