package model

import "fmt"

// Angle is one of the four chart angles a body can occupy.
type Angle int

const (
	AngleMC Angle = iota
	AngleIC
	AngleASC
	AngleDESC
)

// Angles lists the four chart angles in a stable order.
var Angles = []Angle{AngleMC, AngleIC, AngleASC, AngleDESC}

var angleNames = map[Angle]string{
	AngleMC:   "MC",
	AngleIC:   "IC",
	AngleASC:  "ASC",
	AngleDESC: "DESC",
}

// Valid reports whether a is one of the four chart angles.
func (a Angle) Valid() bool {
	_, ok := angleNames[a]
	return ok
}

func (a Angle) String() string {
	if name, ok := angleNames[a]; ok {
		return name
	}
	return fmt.Sprintf("angle(%d)", int(a))
}

// Opposite returns the anti-angle: IC for MC, DESC for ASC, and vice versa.
func (a Angle) Opposite() Angle {
	switch a {
	case AngleMC:
		return AngleIC
	case AngleIC:
		return AngleMC
	case AngleASC:
		return AngleDESC
	default:
		return AngleASC
	}
}

// IsAnti reports whether a is the anti-node of its axis (IC or DESC).
func (a Angle) IsAnti() bool {
	return a == AngleIC || a == AngleDESC
}

// ParseAngle maps an angle tag ("MC", "IC", "ASC", "DESC") onto its constant.
func ParseAngle(tag string) (Angle, error) {
	for a, n := range angleNames {
		if n == tag {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown angle %q", tag)
}

// Method selects how a body's position is projected onto the map.
type Method int

const (
	// Zodiacal derives right ascension and declination from the body's
	// ecliptic position and the obliquity of the ecliptic.
	Zodiacal Method = iota
	// Mundo uses the body's in-mundo equatorial coordinates directly.
	Mundo
)

var methodNames = map[Method]string{
	Zodiacal: "zodiacal",
	Mundo:    "mundo",
}

// Valid reports whether m is a known calculation method.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod maps a method name ("zodiacal", "mundo") onto its constant.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown calculation method %q", name)
}
