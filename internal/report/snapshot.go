// internal/report/snapshot.go
package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/mwiater/greenview/internal/reshape"
)

// Snapshot dimensions in pixels.
const (
	SnapshotWidth  = 800
	SnapshotHeight = 420
)

var sliceColors = map[string]string{
	"CPU": "#4a9eff",
	"GPU": "#f5a623",
	"RAM": "#7ed321",
}

// PNG draws a dataset's energy split, totals and carbon equivalents and
// writes the image to w.
func PNG(title string, ds reshape.Dataset, w io.Writer) error {
	dc := gg.NewContext(SnapshotWidth, SnapshotHeight)
	dc.SetHexColor("#10141f")
	dc.Clear()

	const pad = 32.0
	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%s | %s", title, ds.Key), SnapshotWidth/2, 28, 0.5, 0.5)

	y := drawDistribution(dc, ds.Totals, pad, 64)

	dc.SetHexColor("#c8cfe0")
	lines := []string{
		fmt.Sprintf("CPU %.2f J   GPU %.2f J   RAM %.2f J", ds.Totals.CPU, ds.Totals.GPU, ds.Totals.RAM),
		fmt.Sprintf("Energy %.2f J   Carbon %.2f gCO2", ds.Totals.Energy(), ds.Totals.CO2),
	}
	for _, line := range lines {
		y += 24
		dc.DrawString(line, pad, y)
	}

	y += 40
	dc.SetHexColor("#7ed321")
	dc.DrawString("Equivalent to", pad, y)
	dc.SetHexColor("#c8cfe0")
	for _, line := range ds.Equivalents.Lines() {
		y += 22
		dc.DrawString("  "+line, pad, y)
	}

	if ds.Dropped > 0 {
		dc.SetHexColor("#8888aa")
		dc.DrawStringAnchored(fmt.Sprintf("%d rows skipped", ds.Dropped), SnapshotWidth-pad, SnapshotHeight-16, 1, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// drawDistribution draws a stacked bar of the CPU, GPU and RAM shares and a
// legend under it. It returns the y coordinate below the legend.
func drawDistribution(dc *gg.Context, t reshape.Totals, x, y float64) float64 {
	const barH = 36.0
	width := float64(SnapshotWidth) - 2*x

	dc.SetHexColor("#1a1a3e")
	dc.DrawRectangle(x, y, width, barH)
	dc.Fill()

	offset := x
	slices := reshape.EnergyDistribution(t)
	for _, s := range slices {
		if s.Percent <= 0 {
			continue
		}
		w := width * s.Percent / 100
		dc.SetHexColor(sliceColors[s.Label])
		dc.DrawRectangle(offset, y, w, barH)
		dc.Fill()
		offset += w
	}

	legendY := y + barH + 24
	legendX := x
	for _, s := range slices {
		dc.SetHexColor(sliceColors[s.Label])
		dc.DrawRectangle(legendX, legendY-10, 12, 12)
		dc.Fill()
		dc.SetColor(color.White)
		label := fmt.Sprintf("%s %.1f%%", s.Label, s.Percent)
		dc.DrawString(label, legendX+18, legendY)
		tw, _ := dc.MeasureString(label)
		legendX += tw + 48
	}
	return legendY + 8
}
