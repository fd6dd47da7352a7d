package model

import "strings"

// AntennaSet names a station antenna-field selection. HBA sets use the
// high-band tiles (with an analog tile beamformer), LBA sets the low-band
// dipoles.
type AntennaSet string

const (
	AntennaHBAJoined AntennaSet = "HBA_JOINED"
	AntennaHBADual   AntennaSet = "HBA_DUAL"
	AntennaLBAInner  AntennaSet = "LBA_INNER"
)

// knownAntennaSets lists the antenna sets this station model understands.
var knownAntennaSets = []AntennaSet{
	AntennaHBAJoined,
	AntennaHBADual,
	AntennaLBAInner,
}

// Known reports whether a names a defined antenna set.
func (a AntennaSet) Known() bool {
	for _, k := range knownAntennaSets {
		if a == k {
			return true
		}
	}
	return false
}

// IsHBA reports whether the antenna set uses the high-band tiles. HBA
// beams carry an additional analog (tile) pointing.
func (a AntennaSet) IsHBA() bool {
	return strings.Contains(string(a), "HBA")
}

// IsLBA reports whether the antenna set uses the low-band dipoles.
func (a AntennaSet) IsLBA() bool {
	return strings.Contains(string(a), "LBA")
}

// CompatibleWith reports whether the antenna set can be driven in receiver
// mode m: HBA sets need one of the high-band modes {5,6,7}, LBA sets one of
// the low-band modes {3,4}.
func (a AntennaSet) CompatibleWith(m ReceiverMode) bool {
	switch {
	case a.IsHBA():
		return m == 5 || m == 6 || m == 7
	case a.IsLBA():
		return m == 3 || m == 4
	default:
		return false
	}
}
