package pid

import "fmt"

// Mode is the mode that governs emission
type Mode int

const (
	ModeNormal Mode = iota
	ModeFixed
	ModeFire
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeFixed:
		return "fixed"
	case ModeFire:
		return "fire"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*m = ModeNormal
	case "fixed":
		*m = ModeFixed
	case "fire":
		*m = ModeFire
	default:
		return fmt.Errorf("unknown mode: %s", string(text))
	}
	return nil
}

// Mode resolves the governing mode. Fire and Fixed are independent flags,
// Fire takes precedence over Fixed, which takes precedence over Normal.
func (s *ControlState) Mode() Mode {
	if s.Fire.Engaged {
		return ModeFire
	}
	if s.Fixed.Activated {
		return ModeFixed
	}
	return ModeNormal
}
