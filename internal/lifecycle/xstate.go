package lifecycle

// XStateJSON represents the XState JSON format for visualization.
type XStateJSON struct {
	ID      string                     `json:"id"`
	Initial string                     `json:"initial"`
	States  map[string]XStateStateJSON `json:"states"`
}

// XStateStateJSON represents a state in XState JSON format.
type XStateStateJSON struct {
	Type string                      `json:"type,omitempty"`
	On   map[string]XStateTransition `json:"on,omitempty"`
}

// XStateTransition represents a transition in XState JSON format.
type XStateTransition struct {
	Target string `json:"target"`
}

// ExportXState renders d in the XState machine config shape.
func ExportXState(d Definition) XStateJSON {
	out := XStateJSON{
		ID:      string(d.Entity),
		Initial: d.Initial,
		States:  make(map[string]XStateStateJSON, len(d.States)),
	}
	for _, state := range d.States {
		out.States[state] = XStateStateJSON{}
	}
	for _, final := range d.Final {
		out.States[final] = XStateStateJSON{Type: "final"}
	}
	for _, tr := range d.Transitions {
		st := out.States[tr.From]
		if st.On == nil {
			st.On = map[string]XStateTransition{}
		}
		st.On[string(tr.Event)] = XStateTransition{Target: tr.To}
		out.States[tr.From] = st
	}
	return out
}
