package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/matterdrop/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Frames []sim.Frame `json:"frames"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{Run: *meta, Frames: frames}
	if data.Frames == nil {
		data.Frames = []sim.Frame{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Series extracts one element's values over time with pick.
func Series(frames []sim.Frame, id string, pick func(sim.BodyState) float64) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if b, ok := f.Body(id); ok {
			out = append(out, pick(b))
		}
	}
	return out
}
