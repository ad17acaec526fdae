package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey"
)

const plotlyScriptURL = "https://cdn.plot.ly/plotly-2.32.0.min.js"

var pageTemplate = template.Must(template.New("sankey").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
<script src="{{.ScriptURL}}"></script>
</head>
<body>
<div id="sankey"></div>
<script>
var model = {{.Model}};
var links = model.links || [];
var data = [{
    type: "sankey",
    node: {
        pad: model.node.pad,
        thickness: model.node.thickness,
        line: {color: model.node.line_color, width: model.node.line_width},
        label: model.labels || [],
        color: model.node_colors || []
    },
    link: {
        source: links.map(function(l) { return l.source; }),
        target: links.map(function(l) { return l.target; }),
        value: links.map(function(l) { return l.value; }),
        color: links.map(function(l) { return l.color; })
    }
}];
var layout = {
    title: {text: model.title, font: {size: 18, color: "black"}},
    font: {size: 16, color: "black"}
};
Plotly.newPlot("sankey", data, layout);
</script>
</body>
</html>
`))

// HTMLRenderer writes a self-contained HTML document that draws the
// diagram with Plotly when opened in a browser.
type HTMLRenderer struct {
	outputPath string
}

func NewHTMLRenderer(outputPath string) *HTMLRenderer {
	return &HTMLRenderer{outputPath: outputPath}
}

func (r *HTMLRenderer) Render(ctx context.Context, diagram *sankey.Diagram) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model, err := json.Marshal(diagram)
	if err != nil {
		return fmt.Errorf("encode diagram model: %w", err)
	}

	if dir := filepath.Dir(r.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(r.outputPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	page := struct {
		Title     string
		ScriptURL string
		Model     template.JS
	}{
		Title:     diagram.Title,
		ScriptURL: plotlyScriptURL,
		Model:     template.JS(model),
	}

	if err := pageTemplate.Execute(f, page); err != nil {
		f.Close()
		return fmt.Errorf("render artifact: %w", err)
	}
	return f.Close()
}
