package audioio

import (
	"math"
	"time"
)

// Buffer is a run of float32 samples in [-1, 1] at a fixed sample rate.
// Multi-channel audio is interleaved.
type Buffer struct {
	// Samples contains the audio samples.
	Samples []float32

	// SampleRate is the sample rate of this buffer.
	SampleRate int

	// Channels is the number of channels in this buffer.
	Channels int
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	ch := b.Channels
	if ch <= 0 {
		ch = 1
	}
	return len(b.Samples) / ch
}

// Duration returns the duration of this buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// RMS calculates the root mean square of the samples, between 0.0 and 1.0.
func (b *Buffer) RMS() float64 {
	return CalculateRMS(b.Samples)
}

// CalculateRMS calculates the root mean square of samples.
func CalculateRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// FramesFor returns the number of frames covering d at rate.
func FramesFor(d time.Duration, rate int) int {
	return int(float64(rate) * d.Seconds())
}
