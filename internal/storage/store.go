package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

const (
	MetadataFile   = "metadata.json"
	TrajectoryFile = "trajectory.csv"
)

// EnsureDir creates dir and its parents. An existing directory is accepted.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w %s: %v", dynamo.ErrOutputDir, dir, err)
	}
	return nil
}

// Store persists one run into its output directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return EnsureDir(s.baseDir)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Step      float64            `json:"step"`
	EndTime   float64            `json:"end_time"`
	Steps     int                `json:"steps"`
	FinalTime float64            `json:"final_time"`
	Frames    int                `json:"frames"`
	Collision string             `json:"collision"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is the pendulum state at one instant.
type Sample struct {
	Time      float64
	Pos       dynamo.Vec3
	Vel       dynamo.Vec3
	Angle     float64
	AngVel    float64
	Energy    float64
	Violation float64
}

var header = []string{"time", "x", "y", "z", "vx", "vy", "vz", "angle", "omega", "energy", "violation"}

func (s *Store) Save(meta RunMetadata, samples []Sample) error {
	if err := s.Init(); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(s.baseDir, MetadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(s.baseDir, TrajectoryFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range samples {
		vals := []float64{
			smp.Time,
			smp.Pos.X(), smp.Pos.Y(), smp.Pos.Z(),
			smp.Vel.X(), smp.Vel.Y(), smp.Vel.Z(),
			smp.Angle, smp.AngVel, smp.Energy, smp.Violation,
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) Load() (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory() ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, TrajectoryFile))
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

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", TrajectoryFile, i+2, len(header), len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", TrajectoryFile, i+2, err)
			}
			vals[j] = v
		}
		samples = append(samples, Sample{
			Time:      vals[0],
			Pos:       dynamo.V(vals[1], vals[2], vals[3]),
			Vel:       dynamo.V(vals[4], vals[5], vals[6]),
			Angle:     vals[7],
			AngVel:    vals[8],
			Energy:    vals[9],
			Violation: vals[10],
		})
	}

	return samples, nil
}
