package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/report"
)

const scoreColumns = `id, student_id, exam_id, subject, term, mark, created_at`

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

// examWeights maps the weighting scheme to a JSONB column.
type examWeights []report.ExamWeight

func (w examWeights) Value() (driver.Value, error) {
	if w == nil {
		w = examWeights{}
	}
	return json.Marshal(w)
}

func (w *examWeights) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unexpected weights type %T", src)
	}
	return json.Unmarshal(b, w)
}

func (repo *reportRepository) SaveWeightConfig(ctx context.Context, cfg report.WeightConfig) (report.WeightConfig, error) {
	q := `
INSERT INTO report_weight_config (id, grade, term, weights, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (grade, term) DO UPDATE
    SET id = EXCLUDED.id, weights = EXCLUDED.weights, created_at = EXCLUDED.created_at`
	_, err := repo.db.ExecContext(ctx, q, cfg.ID, cfg.Grade, cfg.Term, examWeights(cfg.Weights), cfg.CreatedAt)
	if err != nil {
		return report.WeightConfig{}, errors.Wrap(err, "saving weight config")
	}
	return cfg, nil
}

func (repo *reportRepository) GetWeightConfig(ctx context.Context, grade int, term string) (report.WeightConfig, error) {
	var (
		cfg     report.WeightConfig
		weights examWeights
	)
	q := `SELECT id, grade, term, weights, created_at FROM report_weight_config WHERE grade = $1 AND term = $2`
	err := repo.db.QueryRowxContext(ctx, q, grade, term).
		Scan(&cfg.ID, &cfg.Grade, &cfg.Term, &weights, &cfg.CreatedAt)
	if err != nil {
		return report.WeightConfig{}, trapNoRowsErr(err, report.ErrConfigNotFound)
	}
	cfg.Weights = weights
	return cfg, nil
}

func (repo *reportRepository) CreateScore(ctx context.Context, s report.Score) (report.Score, error) {
	q := `
INSERT INTO exam_score (` + scoreColumns + `)
VALUES (:id, :student_id, :exam_id, :subject, :term, :mark, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return report.Score{}, errors.Wrap(err, "inserting score")
	}
	return s, nil
}

func (repo *reportRepository) QueryStudentScores(ctx context.Context, studentID, term string) ([]report.Score, error) {
	var scores []report.Score
	q := `SELECT ` + scoreColumns + ` FROM exam_score WHERE student_id = $1 AND term = $2 ORDER BY subject ASC, exam_id ASC`
	if err := repo.db.SelectContext(ctx, &scores, q, studentID, term); err != nil {
		return nil, errors.Wrap(err, "selecting scores")
	}
	return scores, nil
}
