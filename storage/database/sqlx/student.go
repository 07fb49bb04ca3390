package sqlxrepos

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/student"
)

const studentColumns = `id, name, admission_no, grade, guardian_name, guardian_email, guardian_phone, is_active, created_at, updated_at`

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckAdmissionNoUniqueness(ctx context.Context, admissionNo string) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM student WHERE admission_no = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, admissionNo); err != nil {
		return errors.Wrap(err, "checking admission number")
	}
	if exists {
		return student.ErrAdmissionNoExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q := `
INSERT INTO student (` + studentColumns + `)
VALUES (:id, :name, :admission_no, :grade, :guardian_name, :guardian_email, :guardian_phone, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, st); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var st student.Student
	q := `SELECT ` + studentColumns + ` FROM student WHERE id = $1`
	if err := repo.db.GetContext(ctx, &st, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound)
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (student.Student, error) {
	var st student.Student
	q := `SELECT ` + studentColumns + ` FROM student WHERE admission_no = $1`
	if err := repo.db.GetContext(ctx, &st, q, admissionNo); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound)
	}
	return st, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	var where whereBuilder
	if filter != nil {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			where.add("(name ILIKE ? OR admission_no ILIKE ?)", pattern, pattern)
		}
		if filter.Grade != nil {
			where.add("grade = ?", *filter.Grade)
		}
		if filter.IsActive != nil {
			where.add("is_active = ?", *filter.IsActive)
		}
	}

	q := `SELECT ` + studentColumns + ` FROM student` + where.clause() + orderBy(ordering, "name ASC")
	var students []student.Student
	if err := repo.db.SelectContext(ctx, &students, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

// UpdateStudent saves only the set fields; AdmissionNo is immutable.
func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student, isActive *bool) (student.Student, error) {
	var set whereBuilder
	if st.Name != "" {
		set.add("name = ?", st.Name)
	}
	if st.Grade != 0 {
		set.add("grade = ?", st.Grade)
	}
	if st.GuardianName != "" {
		set.add("guardian_name = ?", st.GuardianName)
	}
	if st.GuardianEmail != "" {
		set.add("guardian_email = ?", st.GuardianEmail)
	}
	if st.GuardianPhone != "" {
		set.add("guardian_phone = ?", st.GuardianPhone)
	}
	if isActive != nil {
		set.add("is_active = ?", *isActive)
	}
	if !st.UpdatedAt.IsZero() {
		set.add("updated_at = ?", st.UpdatedAt)
	}
	if len(set.conds) == 0 {
		return repo.GetStudent(ctx, st.ID)
	}

	set.args = append(set.args, st.ID)
	q := `UPDATE student SET ` + strings.Join(set.conds, ", ") +
		` WHERE id = $` + strconv.Itoa(len(set.args)) + ` RETURNING ` + studentColumns
	var updated student.Student
	if err := repo.db.GetContext(ctx, &updated, q, set.args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound)
	}
	return updated, nil
}

func (repo *studentRepository) CountStudents(ctx context.Context, activeOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM student`
	if activeOnly {
		q += ` WHERE is_active`
	}
	var count int
	if err := repo.db.GetContext(ctx, &count, q); err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return count, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}
