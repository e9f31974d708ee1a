package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var (
	ErrBadRunID  = errors.New("storage: invalid run id")
	ErrBadHeader = errors.New("storage: unexpected frames.csv header")
	framesHeader = []string{"time", "id", "x", "y", "angle", "transform"}
)

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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	DeltaMs   float64            `json:"delta_ms"`
	Duration  float64            `json:"duration"`
	Options   dropdown.Options   `json:"options"`
	Elements  []string           `json:"elements"`
	Frames    int                `json:"frames"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// Save writes result under <base>/<scene>_<unix>. A numeric suffix keeps
// IDs unique within one second.
func (s *Store) Save(scene string, cfg sim.Config, opts dropdown.Options, result *sim.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", scene, ts.Unix())
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", scene, ts.Unix(), n)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Timestamp: ts,
		Seed:      cfg.Seed,
		DeltaMs:   cfg.DeltaMs,
		Duration:  cfg.Duration,
		Options:   opts,
		Frames:    len(result.Frames),
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[len(result.Frames)-1].Bodies {
			meta.Elements = append(meta.Elements, b.ID)
		}
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		t := strconv.FormatFloat(fr.Time, 'f', 6, 64)
		for _, b := range fr.Bodies {
			row := []string{
				t,
				b.ID,
				strconv.FormatFloat(b.X, 'f', 6, 64),
				strconv.FormatFloat(b.Y, 'f', 6, 64),
				strconv.FormatFloat(b.Angle, 'f', 6, 64),
				b.Transform,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || runID == "." || runID == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back, grouping consecutive rows with the same
// time into one frame. Only position, angle and transform survive the
// round trip.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(framesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || !equalRow(records[0], framesHeader) {
		return nil, ErrBadHeader
	}

	frames := make([]sim.Frame, 0)
	lastTime := ""
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d: %w", i+2, err)
		}
		vals := [3]float64{}
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[2+j], 64); err != nil {
				return nil, fmt.Errorf("storage: row %d: %w", i+2, err)
			}
		}
		if len(frames) == 0 || rec[0] != lastTime {
			frames = append(frames, sim.Frame{Time: t})
			lastTime = rec[0]
		}
		fr := &frames[len(frames)-1]
		fr.Bodies = append(fr.Bodies, sim.BodyState{ID: rec[1], X: vals[0], Y: vals[1], Angle: vals[2], Transform: rec[5]})
	}
	return frames, nil
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
