package sankey

// Link is one ribbon of the diagram: a weighted directed edge between
// two entries of the label registry.
type Link struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

// NodeStyle carries the layout constants the renderer applies to every
// node.
type NodeStyle struct {
	Pad       int     `json:"pad"`
	Thickness int     `json:"thickness"`
	LineColor string  `json:"line_color"`
	LineWidth float64 `json:"line_width"`
}

func DefaultNodeStyle() NodeStyle {
	return NodeStyle{Pad: 15, Thickness: 20, LineColor: "black", LineWidth: 0.5}
}

// Diagram is the node-link model handed to the renderer: a deduplicated
// ordered label registry, links indexing into it, and per-node display
// colors. It is immutable once built.
type Diagram struct {
	Title      string    `json:"title"`
	Labels     []string  `json:"labels"`
	NodeColors []string  `json:"node_colors"`
	Links      []Link    `json:"links"`
	Node       NodeStyle `json:"node"`
}

// Empty reports whether the diagram has nothing to draw.
func (d *Diagram) Empty() bool {
	return len(d.Links) == 0
}
