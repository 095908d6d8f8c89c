package tui

import (
	"fmt"
	"strings"

	"verisight/scoring"
	"verisight/types"
)

const (
	gaugeWidth    = 30
	heatmapRows   = 8
	heatmapCols   = 32
	maxViewLogs   = 4
	waveformGlyph = "▁▂▃▄▅▆▇█"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.State == StateComplete && m.Snapshot != nil && m.Snapshot.Result != nil {
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
	}

	if m.Snapshot != nil && len(m.Snapshot.Logs) > 0 && m.State != StateConnecting {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		logs := m.Snapshot.Logs
		if len(logs) > maxViewLogs {
			logs = logs[len(logs)-maxViewLogs:]
		}
		for _, l := range logs {
			line := fmt.Sprintf("   %s  %s", l.Timestamp.Local().Format("15:04:05"), l.Message)
			b.WriteString(InfoStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateConnecting:
		return m.spinner.View() + " " + StatusStyle.Render("Connecting to VeriSight...")
	case StateInput:
		return HighlightStyle.Render(TextDropPrompt) + "\n\n" +
			m.input.View() + "\n\n" +
			InfoStyle.Render(TextAccepted)
	case StateUploading:
		return m.spinner.View() + " " + StatusStyle.Render("Uploading "+strings.TrimSpace(m.input.Value())+"...")
	case StateScanning:
		return m.formatScanning()
	case StateComplete:
		return HighlightStyle.Render("✅ Scan complete")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", errMsg))
	default:
		return ""
	}
}

func (m Model) footer() string {
	switch m.State {
	case StateInput:
		return TextFooterInput
	case StateComplete:
		return TextFooterComplete
	case StateError:
		return TextFooterError
	default:
		return TextFooterScanning
	}
}

// formatScanning renders the spinner, file info, analysis steps and waveform
func (m Model) formatScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View() + " " + StatusStyle.Render(TextAnalyzing))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(TextRunning))
	b.WriteString("\n\n")

	if m.Snapshot != nil && m.Snapshot.Upload != nil {
		u := m.Snapshot.Upload
		b.WriteString(fmt.Sprintf("%s %s  %s\n\n", mediaIcon(u.Kind), u.Name,
			InfoStyle.Render(fmt.Sprintf("%.2f MB", u.SizeMB()))))
	}

	if m.Snapshot != nil {
		for _, step := range m.Snapshot.Steps {
			b.WriteString(StatusStyle.Render("  • "))
			b.WriteString(step)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(WaveStyle.Render(m.renderWaveform()))
	return b.String()
}

// renderWaveform draws one glyph per bar at its current height
func (m Model) renderWaveform() string {
	glyphs := []rune(waveformGlyph)
	t := m.elapsed()

	out := make([]rune, len(m.bars))
	for i, bar := range m.bars {
		idx := int(bar.HeightAt(t) / 100 * float64(len(glyphs)))
		out[i] = glyphs[max(0, min(len(glyphs)-1, idx))]
	}
	return string(out)
}

// formatResult formats the completed scan for display
func (m Model) formatResult() string {
	snap := m.Snapshot
	r := snap.Result
	v := snap.Verdict
	if v == nil {
		verdict := scoring.Verdict(r.TrustScore, r.DeepfakeProbability)
		v = &verdict
	}

	var b strings.Builder

	b.WriteString(toneStyle(v.Tone).Bold(true).Render(v.Headline))
	b.WriteString("\n\n")

	gauge := scoring.NewGauge(r.TrustScore, scoring.SizeMedium)
	b.WriteString(categoryStyle(r.TrustScore).Render(gauge.Bar(gaugeWidth, '█', '░')))
	b.WriteString(fmt.Sprintf("  %d/100  %s\n\n", r.TrustScore, toneStyle(v.Tone).Render(v.Label)))

	b.WriteString(fmt.Sprintf("Deepfake probability: %s\n",
		toneStyle(v.ProbabilityTone).Render(fmt.Sprintf("%d%%", r.DeepfakeProbability))))
	b.WriteString(fmt.Sprintf("Confidence:           %d%%\n", r.Confidence))
	b.WriteString(fmt.Sprintf("Media type:           %s %s\n", mediaIcon(r.MediaType), r.MediaType))
	b.WriteString(fmt.Sprintf("Processing time:      %.1fs\n\n", r.ProcessingTime))

	if len(r.Anomalies) == 0 {
		b.WriteString(StatusStyle.Render("No anomalies detected"))
	} else {
		b.WriteString("Detected anomalies:\n")
		for _, a := range r.Anomalies {
			b.WriteString(WarningStyle.Render("  ⚠ " + a))
			b.WriteString("\n")
		}
	}

	if m.ShowHeatmap {
		b.WriteString("\n")
		b.WriteString(renderHeatmap(snap.Heatmap))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHeatmap plots hotspots on a coarse grid with a legend
func renderHeatmap(spots []types.HeatmapSpot) string {
	if len(spots) == 0 {
		return InfoStyle.Render("Heatmap: no hotspots for this media type")
	}

	grid := make([][]rune, heatmapRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat("·", heatmapCols))
	}
	for _, s := range spots {
		row := min(heatmapRows-1, max(0, s.Y*heatmapRows/100))
		col := min(heatmapCols-1, max(0, s.X*heatmapCols/100))
		grid[row][col] = hotspotGlyph(s.Intensity)
	}

	var b strings.Builder
	b.WriteString("Heatmap:\n")
	for _, line := range grid {
		b.WriteString("  ")
		b.WriteString(ErrorStyle.Render(string(line)))
		b.WriteString("\n")
	}
	for _, s := range spots {
		b.WriteString(fmt.Sprintf("  %c %s (%d%%, %d%%) intensity %.0f%%\n",
			hotspotGlyph(s.Intensity), s.Label, s.X, s.Y, s.Intensity*100))
	}
	return b.String()
}

func hotspotGlyph(intensity float64) rune {
	if intensity >= 0.8 {
		return '●'
	}
	return '◉'
}

func mediaIcon(kind types.MediaType) string {
	switch kind {
	case types.MediaImage:
		return "🖼️"
	case types.MediaVideo:
		return "🎬"
	case types.MediaAudio:
		return "🎵"
	default:
		return "📄"
	}
}

