package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/export"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Equation   string    `json:"equation"`
	Normalized string    `json:"normalized"`
	A          float64   `json:"a"`
	B          float64   `json:"b"`
	Tolerance  float64   `json:"tolerance"`
	Root       float64   `json:"root"`
	Iterations int       `json:"iterations"`
	Exact      bool      `json:"exact"`
	Timestamp  time.Time `json:"timestamp"`
}

// Summary converts the metadata for the JSON exporter.
func (m *RunMetadata) Summary() export.Summary {
	return export.Summary{
		Equation:   m.Equation,
		Normalized: m.Normalized,
		A:          m.A,
		B:          m.B,
		Tolerance:  m.Tolerance,
		Root:       m.Root,
	}
}

// Save writes metadata.json and trace.csv into a fresh run directory and
// returns the run ID. Only ID and Timestamp of meta are filled in here.
func (s *Store) Save(meta RunMetadata, result *bisection.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = s.now()
	meta.Root = result.Root
	meta.Iterations = len(result.Trace)
	meta.Exact = result.Exact

	runDir := s.Dir(meta.ID)
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

	csvSink := &export.CSVFile{Path: filepath.Join(runDir, traceFile)}
	if err := csvSink.Consume(result.Trace); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// Dir is the directory holding a run's files. Exporters may write
// additional artifacts there.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// List returns all readable runs, oldest first.
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

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}
	meta, err := s.readMetadata(runID)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return meta, err
}

func (s *Store) LoadTrace(runID string) (bisection.Trace, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.Dir(runID), traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return export.ReadCSV(file)
}

func (s *Store) Remove(runID string) error {
	if err := checkID(runID); err != nil {
		return err
	}
	if _, err := os.Stat(s.Dir(runID)); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(s.Dir(runID))
}

func (s *Store) readMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// checkID keeps run IDs from escaping the base directory.
func checkID(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrRunNotFound, runID)
	}
	return nil
}
