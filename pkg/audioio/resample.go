package audioio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono float32 audio from one sample rate to another.
// Used to bring synthesizer output to the playback rate and device captures
// to the recognizer rate.
func Resample(samples []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate == toRate || len(samples) == 0 {
		return samples, nil
	}
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("audioio: invalid resample rates %d -> %d", fromRate, toRate)
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(fromRate),
		OutputRate: float64(toRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audioio: create resampler: %w", err)
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}

	out, err := r.Process(in)
	if err != nil {
		return nil, fmt.Errorf("audioio: resample %d -> %d: %w", fromRate, toRate, err)
	}

	result := make([]float32, len(out))
	for i, s := range out {
		result[i] = float32(s)
	}
	return result, nil
}

// ResampleBuffer resamples buf to rate, returning buf unchanged when the
// rates already match.
func ResampleBuffer(buf Buffer, rate int) (Buffer, error) {
	samples, err := Resample(buf.Samples, buf.SampleRate, rate)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{Samples: samples, SampleRate: rate, Channels: buf.Channels}, nil
}

// StereoToMono averages interleaved stereo samples to mono.
func StereoToMono(samples []float32) []float32 {
	mono := make([]float32, len(samples)/2)
	for i := range mono {
		mono[i] = (samples[i*2] + samples[i*2+1]) / 2
	}
	return mono
}
