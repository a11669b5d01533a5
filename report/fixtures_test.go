package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// sampleReport is the reference shift: one officer, nothing to report.
func sampleReport() *ShiftReport {
	return &ShiftReport{
		ReportDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ReportNumber:      "01/2025",
		StartDateTime:     time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		EndDateTime:       time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
		TeamName:          "Equipe Alpha",
		ResponsibleOffice: "Cartório 2",
		Officers: []Officer{
			{ID: "of-1", Name: "João Silva", Role: "Agente"},
		},
		HasOccurrences: false,
	}
}

func sampleOccurrence(id string) Occurrence {
	return Occurrence{
		ID:                id,
		RAINumber:         "RAI-12345",
		Nature:            "Embriaguez ao volante",
		Summary:           "Condutor abordado na BR-153 apresentando sinais de embriaguez.",
		ResponsibleOffice: "Cartório 1",
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 26, G: 58, B: 110, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
