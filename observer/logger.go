package observer

import (
	"log"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/philosopher"
)

// Logger prints one line per notification.
type Logger struct {
	*log.Logger

	// Attempts enables a line per failed pick-up attempt.
	Attempts bool
}

// NewLogger creates a Logger writing to l.
func NewLogger(l *log.Logger) *Logger {
	return &Logger{Logger: l}
}

// ColourState returns the state name coloured for terminals.
func ColourState(s philosopher.State) string {
	switch s {
	case philosopher.Thinking:
		return color.BlueString("%s", s)
	case philosopher.Hungry:
		return color.YellowString("%s", s)
	case philosopher.Eating:
		return color.GreenString("%s", s)
	}
	return s.String()
}

func (l *Logger) ActorStateChanged(actorID int, state philosopher.State) {
	l.Printf("philosopher %d is %s", actorID, ColourState(state))
}

func (l *Logger) ResourcePairChanged(left, right int, inUse bool) {
	if inUse {
		l.Printf("chopsticks %d and %d %s", left, right, color.RedString("taken"))
		return
	}
	l.Printf("chopsticks %d and %d %s", left, right, color.CyanString("released"))
}

func (l *Logger) AcquireFailed(actorID int) {
	if l.Attempts {
		l.Printf("philosopher %d could not pick up chopsticks, backing off", actorID)
	}
}
