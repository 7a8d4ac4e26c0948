package philosopher

import "fmt"

// State is the activity of a philosopher.
type State int

const (
	Thinking State = iota
	Hungry
	Eating
)

var stateNames = [...]string{
	Thinking: "Thinking",
	Hungry:   "Hungry",
	Eating:   "Eating",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Next returns the state that follows s in the cycle.
func (s State) Next() State {
	return (s + 1) % State(len(stateNames))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("marshal: unknown state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshal: unknown state %q", text)
}
