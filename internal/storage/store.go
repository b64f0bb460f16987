package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Handlers   []string           `json:"handlers"`
	StepsTaken int                `json:"steps_taken"`
	Halted     bool               `json:"halted"`
	Exchanges  map[string]int     `json:"exchanges"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Frame is one recorded exchange line.
type Frame struct {
	Stream string
	Time   float64
	Values []float64
}

// Recorder collects frames during a run. Record matches the bridge's
// tap signature and copies values.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *Recorder) Record(stream string, t float64, values []float64) {
	v := make([]float64, len(values))
	copy(v, values)
	r.mu.Lock()
	r.frames = append(r.frames, Frame{Stream: stream, Time: t, Values: v})
	r.mu.Unlock()
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Save writes meta and frames to a new run directory and returns its ID.
// meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	now := time.Now()
	name := meta.Source
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", filepath.Base(name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

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

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"stream", "time", "values"}); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := make([]string, 0, 2+len(f.Values))
		row = append(row, f.Stream, strconv.FormatFloat(f.Time, 'g', -1, 64))
		for _, v := range f.Values {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, oldest first.
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
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads the frames of a run. An empty stream selects all.
func (s *Store) LoadFrames(runID, stream string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}
		if stream != "" && record[0] != stream {
			continue
		}

		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", framesFile, i+1, err)
		}
		values := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s line %d: %w", framesFile, i+1, err)
			}
			values = append(values, v)
		}
		frames = append(frames, Frame{Stream: record[0], Time: t, Values: values})
	}
	return frames, nil
}

// Column extracts one value index from frames as a series.
func Column(frames []Frame, index int) ([]float64, error) {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if index < 0 || index >= len(f.Values) {
			return nil, fmt.Errorf("storage: column %d out of range for %d values", index, len(f.Values))
		}
		out = append(out, f.Values[index])
	}
	return out, nil
}
