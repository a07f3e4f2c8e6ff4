package game

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

const sampleRate = 44100

var (
	audioOnce sync.Once
	audioCtx  *audio.Context
	blips     map[sim.EventKind][]byte
)

// tone renders a sine beep as 16-bit little-endian stereo PCM with a linear
// fade out so it does not click.
func tone(freq float64, d time.Duration) []byte {
	n := int(float64(sampleRate) * d.Seconds())
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		fade := 1 - float64(i)/float64(n)
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * 0.3 * fade * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

func initAudio() {
	audioCtx = audio.NewContext(sampleRate)
	blips = map[sim.EventKind][]byte{
		sim.EatFood:  tone(880, 50*time.Millisecond),
		sim.EatSnake: tone(220, 180*time.Millisecond),
	}
}

// playEat beeps for a consumption event: high for food, low for a snake.
func playEat(kind sim.EventKind) {
	audioOnce.Do(initAudio)
	b, ok := blips[kind]
	if !ok {
		return
	}
	audioCtx.NewPlayerFromBytes(b).Play()
}
