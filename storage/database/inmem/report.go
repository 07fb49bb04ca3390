package inmemdb

import (
	"context"
	"sort"
	"strconv"

	"github.com/shuletech/shule/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db.report}
}

func configKey(grade int, term string) string {
	return strconv.Itoa(grade) + "/" + term
}

func (repo *reportRepository) SaveWeightConfig(ctx context.Context, cfg report.WeightConfig) (report.WeightConfig, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.configs[configKey(cfg.Grade, cfg.Term)] = &cfg
	return cfg, nil
}

func (repo *reportRepository) GetWeightConfig(ctx context.Context, grade int, term string) (report.WeightConfig, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cfg, ok := repo.db.configs[configKey(grade, term)]; ok {
		return *cfg, nil
	}
	return report.WeightConfig{}, report.ErrConfigNotFound
}

func (repo *reportRepository) CreateScore(ctx context.Context, s report.Score) (report.Score, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.scores[s.ID] = &s
	return s, nil
}

func (repo *reportRepository) QueryStudentScores(ctx context.Context, studentID, term string) ([]report.Score, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scores := make([]report.Score, 0)
	for _, s := range repo.db.scores {
		if s.StudentID == studentID && s.Term == term {
			scores = append(scores, *s)
		}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Subject != scores[j].Subject {
			return scores[i].Subject < scores[j].Subject
		}
		return scores[i].ExamID < scores[j].ExamID
	})
	return scores, nil
}
