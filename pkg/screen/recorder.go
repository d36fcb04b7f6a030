package screen

import "time"

// FindRecord describes one completed find operation for persistence.
type FindRecord struct {
	Target     string
	Backend    string
	Similarity float64
	Success    bool
	Duration   time.Duration
	DumpPath   string
}

// CalibrationRecord describes one adaptive threshold relaxation outcome.
type CalibrationRecord struct {
	Target  string
	Upper   float64
	Lower   float64
	Step    float64
	Learned float64
}

// Recorder persists find and calibration outcomes. Recording is best
// effort: the engine logs and continues when a recorder fails. A nil
// recorder disables persistence entirely.
type Recorder interface {
	RecordFind(rec FindRecord) error
	RecordCalibration(rec CalibrationRecord) error

	// LearnedSimilarity returns the most recently learned threshold
	// for a target, if any.
	LearnedSimilarity(target string) (float64, bool, error)
}
