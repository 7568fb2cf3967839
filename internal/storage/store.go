package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/reveal/internal/overlay"
	"github.com/san-kum/reveal/internal/scenario"
	"github.com/san-kum/reveal/internal/stage"
)

var ErrNotFound = errors.New("run not found")

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
	ID         string        `json:"id"`
	Scenario   string        `json:"scenario"`
	Preset     string        `json:"preset"`
	Timestamp  time.Time     `json:"timestamp"`
	Seed       int64         `json:"seed"`
	Sample     time.Duration `json:"sample"`
	Elapsed    time.Duration `json:"elapsed"`
	FinalStage int           `json:"final_stage"`
	Stats      overlay.Stats `json:"stats"`
}

var traceHeader = []string{"time", "stage", "position", "particles", "sound"}

// Save writes meta and the sampled trace under a fresh run id. ID and
// Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, samples []scenario.Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Scenario
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.Time.Seconds(), 'f', 6, 64),
			strconv.Itoa(int(smp.Stage)),
			strconv.FormatFloat(smp.Position, 'f', 6, 64),
			strconv.Itoa(smp.Particles),
			strconv.FormatBool(smp.Sound),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads the samples back. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]scenario.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []scenario.Sample{}, nil
	}

	samples := make([]scenario.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(traceHeader) {
			continue
		}
		secs, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		st, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		pos, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(record[3])
		if err != nil {
			continue
		}
		sound, err := strconv.ParseBool(record[4])
		if err != nil {
			continue
		}
		samples = append(samples, scenario.Sample{
			Time:      time.Duration(secs * float64(time.Second)).Round(time.Microsecond),
			Stage:     stage.Stage(st),
			Position:  pos,
			Particles: n,
			Sound:     sound,
		})
	}
	return samples, nil
}
