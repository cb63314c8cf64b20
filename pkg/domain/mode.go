package domain

// Mode is a named, ordered pipeline of bricks.
// Modes are declared once at startup and never mutated.
type Mode struct {
	Name        string
	Description string
	Actions     []Action
}

// ActionNames returns the short names of the mode's bricks in order.
func (m Mode) ActionNames() []string {
	names := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		names[i] = a.Name()
	}
	return names
}
