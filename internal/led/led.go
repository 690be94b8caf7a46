package led

import (
	"strings"
	"time"
)

// Color identifies one lamp of a studio's LED bank.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

// Colors lists every known color. A registered studio carries exactly
// one lamp per entry.
var Colors = []Color{Green, Yellow, Red}

// State is the visual state of a single lamp.
type State string

const (
	Off   State = "off"
	On    State = "on"
	Blink State = "blink"
)

// Status pairs a lamp state with its blink frequency in cycles per
// second. The frequency only matters while the state is Blink.
type Status struct {
	State     State
	BlinkFreq float64
}

// Period returns the blink period (1 / frequency). It is zero unless
// the state is Blink with a positive frequency; a non-positive
// frequency on a blinking lamp is an input error the caller flags
// rather than something worth dividing by.
func (s Status) Period() time.Duration {
	if s.State != Blink || s.BlinkFreq <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.BlinkFreq)
}

// NormalizeState lowercases a wire state string. The server is not
// consistent about casing ("ON", "On", "on" all occur).
func NormalizeState(raw string) State {
	return State(strings.ToLower(raw))
}
