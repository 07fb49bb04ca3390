package student

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
)

var (
	// errors
	ErrNotFound          = errors.New("student not found")
	ErrAdmissionNoExists = errors.New("a student with this admission number already exists")
)

type (
	Repository interface {
		CheckAdmissionNoUniqueness(ctx context.Context, admissionNo string) error
		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (Student, error)
		// QueryStudents applies AND on available QueryFilter fields.
		// QueryFilter.Search matches Name or AdmissionNo, case-insensitively.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, st Student, isActive *bool) (Student, error)
		CountStudents(ctx context.Context, activeOnly bool) (int, error)
		// DeleteStudent exists for corrections only; leavers are archived.
		DeleteStudent(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		CheckAdmissionNoUniqueness(admissionNo string) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByAdmissionNo(ctx context.Context, admissionNo string) (Student, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Archive(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context, activeOnly bool) (int, error)
		GuardianAddress(ctx context.Context, studentID string) (mail.Address, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) CheckAdmissionNoUniqueness(admissionNo string) error {
	if err := svc.repo.CheckAdmissionNoUniqueness(context.Background(), admissionNo); err != nil {
		if err == ErrAdmissionNoExists {
			return core.NewValidationError(err, core.FieldError{Field: "admission_no", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		ID:            uuid.New().String(),
		Name:          ns.Name,
		AdmissionNo:   ns.AdmissionNo,
		Grade:         ns.Grade,
		GuardianName:  ns.GuardianName,
		GuardianEmail: ns.GuardianEmail,
		GuardianPhone: ns.GuardianPhone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	st.SetActive(true)
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *service) GetByAdmissionNo(ctx context.Context, admissionNo string) (Student, error) {
	return svc.repo.GetStudentByAdmissionNo(ctx, core.CleanString(admissionNo, true /* lower */))
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	st := Student{
		ID:            id,
		Name:          us.Name,
		Grade:         *us.Grade,
		GuardianName:  us.GuardianName,
		GuardianEmail: us.GuardianEmail,
		GuardianPhone: us.GuardianPhone,
		UpdatedAt:     time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, st, us.IsActive)
}

func (svc *service) Archive(ctx context.Context, id string) error {
	inactive := false
	_, err := svc.repo.UpdateStudent(ctx, Student{ID: id, UpdatedAt: time.Now().UTC()}, &inactive)
	return err
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func (svc *service) Count(ctx context.Context, activeOnly bool) (int, error) {
	return svc.repo.CountStudents(ctx, activeOnly)
}

// GuardianAddress satisfies the finance and report guardian directories.
func (svc *service) GuardianAddress(ctx context.Context, studentID string) (mail.Address, error) {
	st, err := svc.repo.GetStudent(ctx, studentID)
	if err != nil {
		return mail.Address{}, err
	}
	if st.GuardianEmail == "" {
		return mail.Address{}, ErrNotFound
	}
	return mail.Address{Name: st.GuardianName, Address: st.GuardianEmail}, nil
}
