package web

import (
	"embed"
	"fmt"
	"html/template"

	"verisight/scan"
	"verisight/scoring"
	"verisight/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"tone": func(status string) string { return string(scoring.StatusTone(status)) },
	"inc":  func(i int) int { return i + 1 },
	"barStyle": func(b scan.Bar) template.CSS {
		return template.CSS(fmt.Sprintf("height:%.0f%%;background:%s;animation-duration:%.2fs;animation-delay:%.2fs",
			b.High, b.Color(), b.Duration, b.Delay))
	},
	"spotStyle": func(s types.HeatmapSpot) template.CSS {
		return template.CSS(fmt.Sprintf("left:%d%%;top:%d%%;opacity:%.2f", s.X, s.Y, s.Intensity))
	},
	"tagStyle": func(s types.HeatmapSpot) template.CSS {
		return template.CSS(fmt.Sprintf("left:%d%%;top:%d%%", s.X, s.Y+8))
	},
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
