// Package viz renders run results for the terminal: a lineout profile of the
// radiograph and a styled run summary.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/protorad/internal/radiograph"
	"github.com/san-kum/protorad/internal/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// Profile plots the per-column totals of the radiograph, a cheap terminal
// stand-in for the full 2D image. Sphere presets show up as a central dip.
func Profile(im *radiograph.Image, width, height int) string {
	sums := im.RowSums()
	edges := im.UEdges()
	caption := fmt.Sprintf("counts per column, %.1f to %.1f mm",
		edges[0]*1e3, edges[len(edges)-1]*1e3)
	chart := asciigraph.Plot(sums,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(chart)
}

// Summary renders the stored metadata of a run as a labeled block.
func Summary(meta *storage.RunMetadata) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(meta.Preset)) + "\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Run", meta.ID)
	row("Time", meta.Timestamp.Format("2006-01-02 15:04:05"))
	row("Species", meta.Species)
	row("Energy", fmt.Sprintf("%.2f MeV", meta.EnergyMeV))
	row("Particles", fmt.Sprintf("%d", meta.Particles))
	row("Cone", fmt.Sprintf("%.1f deg", meta.MaxThetaDeg))
	row("Pusher", meta.Pusher)
	row("Weighting", meta.Weighting)
	if meta.MeshEnabled {
		row("Mesh", "enabled")
	}

	s.WriteString("\n")
	row("Detected", fmt.Sprintf("%d", meta.Detected))
	row("Absorbed", fmt.Sprintf("%d", meta.Absorbed))
	row("Escaped", fmt.Sprintf("%d", meta.Escaped))
	if meta.Stranded > 0 {
		s.WriteString(labelStyle.Render("Stranded") +
			warnStyle.Render(fmt.Sprintf("%d", meta.Stranded)) + "\n")
	}
	if meta.Cropped > 0 {
		s.WriteString(labelStyle.Render("Cropped") +
			warnStyle.Render(fmt.Sprintf("%d", meta.Cropped)) + "\n")
	}
	row("Steps", fmt.Sprintf("%d", meta.Steps))
	row("Speed drift", fmt.Sprintf("%.2e", meta.MaxSpeedDrift))
	row("Elapsed", fmt.Sprintf("%.2fs", meta.ElapsedSec))

	return s.String()
}
