package scoring

import (
	"fmt"
	"strings"
)

// Component is one weighted term of the score. Penalties carry negative points.
type Component struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Points float64 `json:"points"`
	Cap    float64 `json:"cap,omitempty"`
}

// Breakdown explains how a score was reached.
type Breakdown struct {
	Components []Component `json:"components"`
	Raw        float64     `json:"raw"`
	Total      int         `json:"total"`
}

// Bonuses returns the positive contributions.
func (b Breakdown) Bonuses() []Component {
	out := make([]Component, 0, len(b.Components))
	for _, c := range b.Components {
		if c.Points > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Penalties returns the negative contributions.
func (b Breakdown) Penalties() []Component {
	out := make([]Component, 0, len(b.Components))
	for _, c := range b.Components {
		if c.Points < 0 {
			out = append(out, c)
		}
	}
	return out
}

// Summary renders the breakdown as aligned text lines for the CLI.
func (b Breakdown) Summary() string {
	var sb strings.Builder
	for _, c := range b.Components {
		if c.Points == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-26s %+6.1f\n", c.Label, c.Points))
	}
	sb.WriteString(fmt.Sprintf("%-26s %6d\n", "Overall", b.Total))
	return sb.String()
}
