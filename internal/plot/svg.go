package plot

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/graph.svg.tmpl
var templateFS embed.FS

var svgTemplate = template.Must(template.New("svg").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/graph.svg.tmpl"))

// WriteSVG renders g as a standalone SVG document
func WriteSVG(w io.Writer, g *Graph) error {
	if err := svgTemplate.ExecuteTemplate(w, "graph", g); err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	return nil
}

// InlineSVG renders g for embedding into an HTML page
func InlineSVG(g *Graph) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, g); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
