package notify

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"timerdeck/internal/core/timekeeper"
	"timerdeck/resources"
)

var _ timekeeper.Notifier = (*SoundNotifier)(nil)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// SoundNotifier plays a chime for each alert.
type SoundNotifier struct {
	halfway  *beep.Buffer
	complete *beep.Buffer
	volume   float64
	play     func(beep.Streamer)
}

// NewSoundNotifier opens the default audio device once per process.
// Volume uses beep's base-2 scale, so 0 plays the chimes unchanged and -1 halves them.
func NewSoundNotifier(volume float64) (*SoundNotifier, error) {
	halfway, complete, err := LoadChimes()
	if err != nil {
		return nil, err
	}
	sampleRate := halfway.Format().SampleRate
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}
	return newSoundNotifier(halfway, complete, volume, func(streamer beep.Streamer) {
		speaker.Play(streamer)
	}), nil
}

func newSoundNotifier(halfway, complete *beep.Buffer, volume float64, play func(beep.Streamer)) *SoundNotifier {
	return &SoundNotifier{
		halfway:  halfway,
		complete: complete,
		volume:   volume,
		play:     play,
	}
}

// LoadChimes decodes the embedded halfway and completion sounds.
func LoadChimes() (halfway, complete *beep.Buffer, err error) {
	halfway, err = decodeChime(resources.SoundHalfway)
	if err != nil {
		return nil, nil, err
	}
	complete, err = decodeChime(resources.SoundComplete)
	if err != nil {
		return nil, nil, err
	}
	return halfway, complete, nil
}

func decodeChime(name string) (*beep.Buffer, error) {
	data, err := resources.Sound(name)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

func (notifier *SoundNotifier) OnHalfwayAlert(timerID, name string) {
	if notifier != nil {
		notifier.playBuffer(notifier.halfway)
	}
}

func (notifier *SoundNotifier) OnCompletion(timerID, name string, completionTime time.Time) {
	if notifier != nil {
		notifier.playBuffer(notifier.complete)
	}
}

func (notifier *SoundNotifier) playBuffer(buffer *beep.Buffer) {
	if buffer == nil || notifier.play == nil {
		return
	}
	notifier.play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   notifier.volume,
	})
}
