package report

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
)

var (
	// errors
	ErrConfigNotFound = errors.New("weight configuration not found")
	ErrNoScores       = errors.New("no scores recorded for this student and term")
)

type (
	Repository interface {
		// SaveWeightConfig replaces any existing configuration for the same grade and term.
		SaveWeightConfig(ctx context.Context, cfg WeightConfig) (WeightConfig, error)
		GetWeightConfig(ctx context.Context, grade int, term string) (WeightConfig, error)

		CreateScore(ctx context.Context, s Score) (Score, error)
		QueryStudentScores(ctx context.Context, studentID, term string) ([]Score, error)
	}

	// GuardianDirectory resolves guardian contacts for report-card mail.
	GuardianDirectory interface {
		GuardianAddress(ctx context.Context, studentID string) (mail.Address, error)
	}

	ServiceInterface interface {
		SetWeightConfig(ctx context.Context, nc NewWeightConfig) (WeightConfig, error)
		GetWeightConfig(ctx context.Context, grade int, term string) (WeightConfig, error)
		RecordScore(ctx context.Context, ns NewScore) (Score, error)
		StudentScores(ctx context.Context, studentID, term string) ([]Score, error)
		BuildReportCard(ctx context.Context, studentID string, grade int, term string) (ReportCard, error)
		SendReportCard(ctx context.Context, studentID string, grade int, term string) error
	}

	service struct {
		repo      Repository
		guardians GuardianDirectory
		mailSvc   core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, guardians GuardianDirectory, mailSvc core.EmailService) ServiceInterface {
	return &service{repo: repo, guardians: guardians, mailSvc: mailSvc}
}

func (svc *service) SetWeightConfig(ctx context.Context, nc NewWeightConfig) (WeightConfig, error) {
	cfg := WeightConfig{
		ID:        uuid.New().String(),
		Grade:     nc.Grade,
		Term:      nc.Term,
		Weights:   nc.Weights,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.SaveWeightConfig(ctx, cfg)
}

func (svc *service) GetWeightConfig(ctx context.Context, grade int, term string) (WeightConfig, error) {
	return svc.repo.GetWeightConfig(ctx, grade, core.CleanString(term, true /* lower */))
}

func (svc *service) RecordScore(ctx context.Context, ns NewScore) (Score, error) {
	s := Score{
		ID:        uuid.New().String(),
		StudentID: ns.StudentID,
		ExamID:    ns.ExamID,
		Subject:   ns.Subject,
		Term:      ns.Term,
		Mark:      ns.Mark,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateScore(ctx, s)
}

func (svc *service) StudentScores(ctx context.Context, studentID, term string) ([]Score, error) {
	return svc.repo.QueryStudentScores(ctx, studentID, core.CleanString(term, true /* lower */))
}

// BuildReportCard aggregates the student's term scores into weighted subject
// finals using the grade's weight configuration. Scores on exams absent from
// the configuration are ignored; a configured exam with no recorded score
// contributes zero.
func (svc *service) BuildReportCard(ctx context.Context, studentID string, grade int, term string) (ReportCard, error) {
	term = core.CleanString(term, true /* lower */)

	cfg, err := svc.repo.GetWeightConfig(ctx, grade, term)
	if err != nil {
		return ReportCard{}, err
	}
	scores, err := svc.repo.QueryStudentScores(ctx, studentID, term)
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "querying student scores")
	}
	if len(scores) == 0 {
		return ReportCard{}, ErrNoScores
	}

	weightByExam := make(map[string]float64, len(cfg.Weights))
	for _, w := range cfg.Weights {
		weightByExam[w.ExamID] = w.Weight
	}

	bySubject := make(map[string][]WeightedScore)
	for _, s := range scores {
		weight, ok := weightByExam[s.ExamID]
		if !ok {
			continue
		}
		bySubject[s.Subject] = append(bySubject[s.Subject], WeightedScore{Score: s.Mark, Weight: weight})
	}

	card := ReportCard{
		StudentID:   studentID,
		Grade:       grade,
		Term:        term,
		Results:     make([]SubjectResult, 0, len(bySubject)),
		GeneratedAt: time.Now().UTC(),
	}
	var sum float64
	for subject, pairs := range bySubject {
		final := WeightedFinal(pairs)
		card.Results = append(card.Results, SubjectResult{
			Subject: subject,
			Final:   final,
			Grade:   LetterGrade(final),
		})
		sum += final
	}
	sort.Slice(card.Results, func(i, j int) bool { return card.Results[i].Subject < card.Results[j].Subject })

	if len(card.Results) > 0 {
		card.Average = sum / float64(len(card.Results))
	}
	card.OverallGrade = LetterGrade(card.Average)
	return card, nil
}

func (svc *service) SendReportCard(ctx context.Context, studentID string, grade int, term string) error {
	card, err := svc.BuildReportCard(ctx, studentID, grade, term)
	if err != nil {
		return err
	}
	addr, err := svc.guardians.GuardianAddress(ctx, studentID)
	if err != nil {
		return errors.Wrap(err, "resolving guardian address")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Report card for term %s:\n\n", card.Term)
	for _, res := range card.Results {
		fmt.Fprintf(&body, "%-20s %6.1f  %s\n", res.Subject, res.Final, res.Grade)
	}
	fmt.Fprintf(&body, "\nAverage: %.1f (%s)\n", card.Average, card.OverallGrade)

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{addr},
		Subject: fmt.Sprintf("Report card - %s", strings.Title(card.Term)),
		BodyStr: body.String(),
	})
	return nil
}
