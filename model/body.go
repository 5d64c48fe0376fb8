package model

import "fmt"

// Body identifies a celestial body supported by the engine.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// Bodies lists every supported body in a stable order.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

var bodyNames = map[Body]string{
	Sun:     "sun",
	Moon:    "moon",
	Mercury: "mercury",
	Venus:   "venus",
	Mars:    "mars",
	Jupiter: "jupiter",
	Saturn:  "saturn",
	Uranus:  "uranus",
	Neptune: "neptune",
	Pluto:   "pluto",
}

// Valid reports whether b is one of the supported bodies.
func (b Body) Valid() bool {
	_, ok := bodyNames[b]
	return ok
}

func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// ParseBody maps a lowercase body name onto its Body constant.
func ParseBody(name string) (Body, error) {
	for b, n := range bodyNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", name)
}
