package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boscoh/modeldrop/internal/dynamo"
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
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Method    string             `json:"method"`
	Time      float64            `json:"time"`
	Dt        float64            `json:"dt"`
	Truncated bool               `json:"truncated"`
	Params    map[string]float64 `json:"params"`
}

// Save persists a completed run as metadata.json plus solution.csv with
// one named column per recorded variable. NaN cells are written empty.
func (s *Store) Save(m *dynamo.Model) (string, error) {
	runID := fmt.Sprintf("%s_%d", m.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	params := map[string]float64{}
	for _, key := range m.Params.Keys() {
		params[key] = m.Params.Get(key)
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     m.Name,
		Timestamp: time.Now(),
		Method:    m.Method.String(),
		Time:      m.Params.Get("time"),
		Dt:        m.Params.Get("dt"),
		Truncated: m.Truncated(),
		Params:    params,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "solution.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	sol := m.Solution()
	names := sol.Names()
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, t := range sol.Times {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
		for _, name := range names {
			series, _ := sol.Series(name)
			if i >= len(series) || math.IsNaN(series[i]) {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(series[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSolution reads back a run's trajectories. Empty cells become NaN,
// mirroring how truncated runs are written.
func (s *Store) LoadSolution(runID string) ([]float64, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "solution.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	series := map[string][]float64{}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(record); j++ {
			val := math.NaN()
			if record[j] != "" {
				if v, err := strconv.ParseFloat(record[j], 64); err == nil {
					val = v
				}
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}

// nullableSeries marshals NaN entries as null, which encoding/json
// otherwise rejects.
type nullableSeries []float64

func (ns nullableSeries) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(ns)*8+2)
	buf = append(buf, '[')
	for i, v := range ns {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

// ExportJSON writes a run's metadata and trajectories as a single JSON
// document to path.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := s.LoadSolution(runID)
	if err != nil {
		return err
	}

	nullable := make(map[string]nullableSeries, len(series))
	for name, vals := range series {
		nullable[name] = vals
	}

	doc := struct {
		Metadata *RunMetadata              `json:"metadata"`
		Times    []float64                 `json:"times"`
		Series   map[string]nullableSeries `json:"series"`
	}{meta, times, nullable}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
