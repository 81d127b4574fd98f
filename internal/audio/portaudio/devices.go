package portaudio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

// Device describes an input-capable audio device.
type Device struct {
	Index             int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListDevices returns the devices that can record, indexed as accepted by
// Config.DeviceIndex.
func ListDevices() ([]Device, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer pa.Terminate()

	devices, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var defaultName string
	if def, err := pa.DefaultInputDevice(); err == nil {
		defaultName = def.Name
	}

	return inputDevices(devices, defaultName), nil
}

func inputDevices(devices []*pa.DeviceInfo, defaultName string) []Device {
	var out []Device
	for i, info := range devices {
		if info.MaxInputChannels == 0 {
			continue
		}
		d := Device{
			Index:             i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
			IsDefault:         info.Name == defaultName,
		}
		if info.HostApi != nil {
			d.HostAPI = info.HostApi.Name
		}
		out = append(out, d)
	}
	return out
}
