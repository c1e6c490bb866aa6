package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/boscoh/modeldrop/internal/models"
)

func TestStore_SaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	m, err := models.Lookup("spring")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save(m)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Model != "spring" {
		t.Errorf("model = %s, want spring", meta.Model)
	}
	if meta.Method != "rk45" {
		t.Errorf("method = %s, want rk45", meta.Method)
	}
	if meta.Params["a"] != 1 {
		t.Errorf("params not saved: %v", meta.Params)
	}
	if meta.Truncated {
		t.Error("spring run should not truncate")
	}

	times, series, err := st.LoadSolution(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != m.Solution().Len() {
		t.Errorf("loaded %d points, want %d", len(times), m.Solution().Len())
	}
	xs, ok := series["x"]
	if !ok {
		t.Fatal("x column missing")
	}
	orig, _ := m.Trajectory("x")
	for i := range xs {
		if math.Abs(xs[i]-orig[i]) > 1e-9 {
			t.Fatalf("x[%d] = %g, want %g", i, xs[i], orig[i])
		}
	}
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	m, err := models.Lookup("spring")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(m); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Model != "spring" {
		t.Errorf("model = %s", runs[0].Model)
	}
}

func TestStore_List_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStore_TruncatedRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	m, err := models.Lookup("growth")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetParam("carryingCapacity", 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if !m.Truncated() {
		t.Fatal("expected truncated run")
	}

	runID, err := st.Save(m)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Truncated {
		t.Error("truncation flag lost")
	}

	_, series, err := st.LoadSolution(runID)
	if err != nil {
		t.Fatal(err)
	}
	bounded := series["boundedPopulation"]
	if len(bounded) == 0 {
		t.Fatal("boundedPopulation column missing")
	}
	if !math.IsNaN(bounded[len(bounded)-1]) {
		t.Error("sentinel row should read back as NaN")
	}
}

func TestStore_ExportJSON(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	m, err := models.Lookup("spring")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(m)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "export.json")
	if err := st.ExportJSON(runID, out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Metadata RunMetadata          `json:"metadata"`
		Times    []float64            `json:"times"`
		Series   map[string][]float64 `json:"series"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Model != "spring" {
		t.Errorf("metadata model = %s", doc.Metadata.Model)
	}
	if len(doc.Times) != len(doc.Series["x"]) {
		t.Error("times and series lengths differ")
	}
}

func TestStore_ExportJSON_Truncated(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	m, err := models.Lookup("growth")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetParam("carryingCapacity", 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save(m)
	if err != nil {
		t.Fatal(err)
	}
	// NaN sentinels must encode as null, not break the export
	out := filepath.Join(dir, "export.json")
	if err := st.ExportJSON(runID, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
}
