package audioio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes one PortAudio device.
type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	DefaultInput      bool
	DefaultOutput     bool
}

// Devices lists the audio devices PortAudio can see, marking the defaults
// that capture and playback use.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}

	// Missing defaults are reported as unmarked rather than as errors.
	defIn, _ := portaudio.DefaultInputDevice()
	defOut, _ := portaudio.DefaultOutputDevice()

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		d := Device{
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
			DefaultInput:      defIn != nil && info.Name == defIn.Name && info.HostApi == defIn.HostApi,
			DefaultOutput:     defOut != nil && info.Name == defOut.Name && info.HostApi == defOut.HostApi,
		}
		if info.HostApi != nil {
			d.HostAPI = info.HostApi.Name
		}
		devices = append(devices, d)
	}
	return devices, nil
}
