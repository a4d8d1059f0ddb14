package notify

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadChimes(t *testing.T) {
	halfway, complete, err := LoadChimes()
	require.NoError(t, err)

	assert.Equal(t, beep.SampleRate(22050), halfway.Format().SampleRate)
	assert.Equal(t, halfway.Format(), complete.Format())
	assert.Equal(t, 7717, halfway.Len())
	assert.Equal(t, 13230, complete.Len())
}

func drain(streamer beep.Streamer) int {
	samples := make([][2]float64, 512)
	total := 0
	for {
		n, ok := streamer.Stream(samples)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSoundNotifierPlaysMatchingChime(t *testing.T) {
	halfway, complete, err := LoadChimes()
	require.NoError(t, err)

	var played []int
	notifier := newSoundNotifier(halfway, complete, -1, func(streamer beep.Streamer) {
		played = append(played, drain(streamer))
	})

	notifier.OnHalfwayAlert("a", "Tea")
	notifier.OnCompletion("a", "Tea", time.Now())
	notifier.OnCompletion("b", "Eggs", time.Now())

	assert.Equal(t, []int{halfway.Len(), complete.Len(), complete.Len()}, played)
}

func TestNilSoundNotifierIsSafe(t *testing.T) {
	var notifier *SoundNotifier
	assert.NotPanics(t, func() {
		notifier.OnCompletion("a", "Tea", time.Now())
	})
}
