package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MachineClass selects the node addressing table and whether payloads
// carry decodable telemetry.
type MachineClass int

const (
	Carding MachineClass = iota + 1
	DF
	Flyer
)

// MachineClasses lists every known class in table order.
var MachineClasses = []MachineClass{Carding, DF, Flyer}

func (m MachineClass) String() string {
	switch m {
	case Carding:
		return "carding"
	case DF:
		return "df"
	case Flyer:
		return "flyer"
	default:
		return "machine(" + strconv.Itoa(int(m)) + ")"
	}
}

// NodeSheet is the name of the address table holding this class's node codes.
func (m MachineClass) NodeSheet() string {
	switch m {
	case Carding:
		return "Carding_IDs"
	case DF:
		return "DF_IDs"
	case Flyer:
		return "FF_IDs"
	default:
		return ""
	}
}

// Valid reports whether m is one of the known classes.
func (m MachineClass) Valid() bool {
	return m >= Carding && m <= Flyer
}

// ParseMachineClass accepts a class name ("carding", "df", "flyer") in any
// case, or its numeric value.
func ParseMachineClass(s string) (MachineClass, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "carding":
		return Carding, nil
	case "df":
		return DF, nil
	case "flyer", "ff":
		return Flyer, nil
	}
	if n, err := strconv.Atoi(s); err == nil && MachineClass(n).Valid() {
		return MachineClass(n), nil
	}
	return 0, fmt.Errorf("unknown machine class %q", s)
}
