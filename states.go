package reflexpong

import (
	"fmt"
	"strings"
)

// State is one of the eleven game states. Exactly one is active at a time.
type State uint8

const (
	Start State = iota
	WaitPressP1
	WaitPressP2
	GoToP1
	GoToP2
	ReflexP1
	ReflexP2
	ScoreP1
	ScoreP2
	P1Wins
	P2Wins
)

var stateNames = [...]string{
	Start:       "Start",
	WaitPressP1: "WaitPressP1",
	WaitPressP2: "WaitPressP2",
	GoToP1:      "GoToP1",
	GoToP2:      "GoToP2",
	ReflexP1:    "ReflexP1",
	ReflexP2:    "ReflexP2",
	ScoreP1:     "ScoreP1",
	ScoreP2:     "ScoreP2",
	P1Wins:      "P1Wins",
	P2Wins:      "P2Wins",
}

// States returns every valid state in declaration order.
func States() []State {
	out := make([]State, len(stateNames))
	for i := range stateNames {
		out[i] = State(i)
	}
	return out
}

// Valid reports whether s names a real state.
func (s State) Valid() bool {
	return int(s) < len(stateNames)
}

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if strings.EqualFold(name, string(text)) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// AnimationState tells a state's animation whether it should keep running.
type AnimationState uint8

const (
	Running AnimationState = iota
	Ended
)

func (a AnimationState) String() string {
	switch a {
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("AnimationState(%d)", uint8(a))
	}
}

func (a AnimationState) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AnimationState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*a = Running
	case "ended":
		*a = Ended
	default:
		return fmt.Errorf("unknown animation state %q", text)
	}
	return nil
}
