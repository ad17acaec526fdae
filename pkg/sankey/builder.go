package sankey

import (
	"github.com/Kevinm360/Sankey-Diagram/pkg/journey"
)

// DefaultTitle matches the layout title of the produced artifact.
const DefaultTitle = "Sankey Diagram of Patient Condition Journeys"

// Builder turns aggregated transitions into a Diagram. Label indices
// are assigned first-seen-wins while walking transitions in their
// first-observed order, with the from endpoint checked before the to
// endpoint, so a given stats log always yields the same model.
type Builder struct {
	title   string
	palette []string
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{title: DefaultTitle, palette: DefaultPalette()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

type BuilderOption func(*Builder)

// WithPalette overrides the link color palette. Invalid overrides are
// ignored in favor of the default.
func WithPalette(palette []string) BuilderOption {
	return func(b *Builder) {
		if ValidatePalette(palette) == nil {
			b.palette = palette
		}
	}
}

func WithTitle(title string) BuilderOption {
	return func(b *Builder) {
		if title != "" {
			b.title = title
		}
	}
}

// Build maps each transition to a link weighted by its total elapsed
// days. Link color is the link's ordinal position modulo the palette
// size; it encodes nothing about the transition itself. Node colors
// cycle through the same palette by label index.
func (b *Builder) Build(stats *journey.StatsLog) *Diagram {
	diagram := &Diagram{
		Title: b.title,
		Node:  DefaultNodeStyle(),
	}
	index := make(map[string]int)

	register := func(label string) int {
		if i, ok := index[label]; ok {
			return i
		}
		i := len(diagram.Labels)
		index[label] = i
		diagram.Labels = append(diagram.Labels, label)
		diagram.NodeColors = append(diagram.NodeColors, b.palette[i%len(b.palette)])
		return i
	}

	for _, key := range stats.Keys() {
		st, ok := stats.Stats(key)
		if !ok {
			continue
		}
		source := register(key.From)
		target := register(key.To)
		diagram.Links = append(diagram.Links, Link{
			Source: source,
			Target: target,
			Value:  float64(st.Total),
			Color:  b.palette[len(diagram.Links)%len(b.palette)],
		})
	}
	return diagram
}
