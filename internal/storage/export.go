package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/muonsim/internal/sim"
)

type ExportData struct {
	Run  RunMetadata `json:"run"`
	Rows []ExportRow `json:"rows"`
}

type ExportRow struct {
	Index      int     `json:"index"`
	AngleDeg   float64 `json:"angle_deg"`
	Adjusted   float64 `json:"adjusted"`
	Unadjusted float64 `json:"unadjusted"`
	Reference  float64 `json:"reference"`
}

// ExportJSON writes a run and its rows as indented JSON. NaN and Inf values
// cannot be encoded and make it fail.
func ExportJSON(w io.Writer, meta RunMetadata, rows []sim.Row) error {
	data := ExportData{
		Run:  meta,
		Rows: make([]ExportRow, len(rows)),
	}
	for i, r := range rows {
		data.Rows[i] = ExportRow{
			Index:      r.Index,
			AngleDeg:   r.Angle,
			Adjusted:   r.Adjusted,
			Unadjusted: r.Unadjusted,
			Reference:  r.Reference,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
