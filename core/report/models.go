package report

import (
	"time"

	"github.com/shuletech/shule/core"
)

// ExamWeight is one exam's percentage contribution to the final mark.
type ExamWeight struct {
	ExamID string  `json:"exam_id" db:"exam_id" validate:"required"`
	Weight float64 `json:"weight" db:"weight"`
}

// WeightConfig is the weighting scheme for one grade and term. Its weights
// must sum to 100 (± tolerance); this is enforced when the configuration is
// saved, never at aggregation time.
type WeightConfig struct {
	ID        string       `json:"id" db:"id"`
	Grade     int          `json:"grade" db:"grade"`
	Term      string       `json:"term" db:"term"`
	Weights   []ExamWeight `json:"weights"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"` // UTC
}

// NewWeightConfig contains information needed to save a weighting scheme.
type NewWeightConfig struct {
	Grade   int          `json:"grade" validate:"min=0"`
	Term    string       `json:"term" validate:"required"`
	Weights []ExamWeight `json:"weights" validate:"required,min=1,dive"`
}

func (nc *NewWeightConfig) Validate() error {
	nc.Term = core.CleanString(nc.Term, true /* lower */)
	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return ValidateWeights(nc.Weights)
}

// Score is one student's mark on one exam for one subject.
type Score struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	ExamID    string    `json:"exam_id" db:"exam_id"`
	Subject   string    `json:"subject" db:"subject"`
	Mark      float64   `json:"mark" db:"mark"`
	Term      string    `json:"term" db:"term"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewScore contains information needed to record a Score.
type NewScore struct {
	StudentID string  `json:"student_id" validate:"required"`
	ExamID    string  `json:"exam_id" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Term      string  `json:"term" validate:"required"`
	Mark      float64 `json:"mark" validate:"min=0,max=100"`
}

func (ns *NewScore) Validate() error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Term = core.CleanString(ns.Term, true /* lower */)
	return core.Validate.Struct(ns)
}

// SubjectResult is the weighted final for one subject.
type SubjectResult struct {
	Subject string  `json:"subject"`
	Final   float64 `json:"final"`
	Grade   string  `json:"grade"`
}

// ReportCard is the derived term report for one student. Like settlement
// status it is recomputed on every read, never stored.
type ReportCard struct {
	StudentID    string          `json:"student_id"`
	Grade        int             `json:"grade"`
	Term         string          `json:"term"`
	Results      []SubjectResult `json:"results"`
	Average      float64         `json:"average"`
	OverallGrade string          `json:"overall_grade"`
	GeneratedAt  time.Time       `json:"generated_at"` // UTC
}
