package engine

import "fmt"

// ParseMode converte o código de wire do modo de expansão.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "IDENTITY":
		return ModeIdentity, nil
	case "DIRECT_GATE":
		return ModeDirectGate, nil
	case "WIN_TWO":
		return ModeWinTwo, nil
	case "WIN_THREE":
		return ModeWinThree, nil
	}
	return 0, fmt.Errorf("unknown expansion mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeDirectGate:
		return "DIRECT_GATE"
	case ModeWinTwo:
		return "WIN_TWO"
	case ModeWinThree:
		return "WIN_THREE"
	}
	return "IDENTITY"
}

// ParseSpecialSet converte o código de wire de um conjunto fixo.
func ParseSpecialSet(s string) (SpecialSet, error) {
	switch s {
	case "DOUBLE":
		return SetDouble, nil
	case "SIBLING_PAIR":
		return SetSiblingPair, nil
	case "TRIPLE":
		return SetTriple, nil
	case "DOUBLE_FRONT":
		return SetDoubleFront, nil
	case "DOUBLE_BACK":
		return SetDoubleBack, nil
	case "SANDWICH":
		return SetSandwich, nil
	}
	return 0, fmt.Errorf("unknown special set %q", s)
}
