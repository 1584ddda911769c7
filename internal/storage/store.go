package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/muonsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	rowsFile     = "rows.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	EnergyGeV    float64            `json:"energy_gev"`
	Steps        int                `json:"steps"`
	SpacingCm    float64            `json:"spacing_cm"`
	DtSeconds    float64            `json:"dt_s"`
	HalfAngleDeg float64            `json:"half_angle_deg"`
	BaselineCm   float64            `json:"baseline_cm"`
	AreaCm2      float64            `json:"area_cm2"`
	Factor       float64            `json:"normalization_factor"`
	Metrics      map[string]float64 `json:"metrics"`
	Telemetry    map[string]float64 `json:"telemetry,omitempty"`
}

// NewRunID returns a sortable, unique run identifier.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}

// Save writes meta and rows under a new run directory and returns its ID.
// ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, rows []sim.Row) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Timestamp)
	}
	meta = sanitize(meta)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, rowsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeRows(csvFile, rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// sanitize drops values JSON cannot encode. A non-finite factor is stored as 0.
func sanitize(meta RunMetadata) RunMetadata {
	if !finite(meta.Factor) {
		meta.Factor = 0
	}
	meta.Metrics = finiteOnly(meta.Metrics)
	meta.Telemetry = finiteOnly(meta.Telemetry)
	return meta
}

func finiteOnly(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if finite(v) {
			out[k] = v
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func writeRows(w io.Writer, rows []sim.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "zenith_rad", "angle_deg", "adjusted", "unadjusted", "reference"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Index),
			formatFloat(r.Zenith),
			formatFloat(r.Angle),
			formatFloat(r.Adjusted),
			formatFloat(r.Unadjusted),
			formatFloat(r.Reference),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadRows(runID string) ([]sim.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, rowsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Row{}, nil
	}

	rows := make([]sim.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", rowsFile, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string) (sim.Row, error) {
	var row sim.Row
	if len(record) != 6 {
		return row, fmt.Errorf("expected 6 fields, got %d", len(record))
	}

	idx, err := strconv.Atoi(record[0])
	if err != nil {
		return row, err
	}
	row.Index = idx

	dst := []*float64{&row.Zenith, &row.Angle, &row.Adjusted, &row.Unadjusted, &row.Reference}
	for i, p := range dst {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return row, err
		}
		*p = v
	}
	return row, nil
}
