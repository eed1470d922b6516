package protocol

// Fadecandy firmware configuration (system exclusive) messages.
//
// The configuration byte values are vendor constants and are sent as-is.

const (
	// SystemIDFadecandy identifies Fadecandy sysex messages
	SystemIDFadecandy uint16 = 0x0001

	// SysexFirmwareConfig selects the firmware configuration packet
	SysexFirmwareConfig uint16 = 0x0002

	// FirmwareConfigLength is the payload length of a firmware config message
	FirmwareConfigLength = 5
)

// Configuration byte values
const (
	// ConfigDefaults leaves dithering and keyframe interpolation enabled and
	// the status LED under firmware control
	ConfigDefaults byte = 0x00

	// ConfigDitherInterpolationOff disables dithering and keyframe
	// interpolation
	ConfigDitherInterpolationOff byte = 0b00000011

	// ConfigStatusLEDOn takes manual control of the status LED and lights it
	ConfigStatusLEDOn byte = 0b00001100

	// ConfigStatusLEDOff turns the status LED off
	ConfigStatusLEDOff byte = 0x00
)

// firmwareConfigHeader is shared by every firmware configuration message
var firmwareConfigHeader = [8]byte{
	BroadcastChannel,
	CmdSystemExclusive,
	0x00, FirmwareConfigLength,
	byte(SystemIDFadecandy >> 8), byte(SystemIDFadecandy),
	byte(SysexFirmwareConfig >> 8), byte(SysexFirmwareConfig),
}

// BuildFirmwareConfig constructs a firmware configuration message carrying
// a single configuration byte
//
// Message Structure:
//
//	[0-3]   00 FF 00 05    Broadcast, sysex, length 5
//	[4-5]   00 01          System ID
//	[6-7]   00 02          Sysex ID
//	[8]     config
func BuildFirmwareConfig(config byte) []byte {
	msg := make([]byte, len(firmwareConfigHeader)+1)
	copy(msg, firmwareConfigHeader[:])
	msg[len(firmwareConfigHeader)] = config
	return msg
}

// BuildStatusLED constructs the message that turns the status LED on or off
func BuildStatusLED(on bool) []byte {
	if on {
		return BuildFirmwareConfig(ConfigStatusLEDOn)
	}
	return BuildFirmwareConfig(ConfigStatusLEDOff)
}

// BuildDitheringAndInterpolation constructs the message that enables (the
// firmware default) or disables dithering and keyframe interpolation
func BuildDitheringAndInterpolation(enabled bool) []byte {
	if enabled {
		return BuildFirmwareConfig(ConfigDefaults)
	}
	return BuildFirmwareConfig(ConfigDitherInterpolationOff)
}
