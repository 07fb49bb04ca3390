package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	return students
}

func (repo *studentRepository) CheckAdmissionNoUniqueness(ctx context.Context, admissionNo string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, st := range repo.query() {
		if st.AdmissionNo == admissionNo {
			return student.ErrAdmissionNoExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, st := range repo.query() {
		if st.AdmissionNo == admissionNo {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func matchStudent(st student.Student, filter *student.QueryFilter) bool {
	if filter == nil || filter.IsEmpty() {
		return true
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(st.Name), search) &&
			!strings.Contains(strings.ToLower(st.AdmissionNo), search) {
			return false
		}
	}
	if filter.Grade != nil && st.Grade != *filter.Grade {
		return false
	}
	if filter.IsActive != nil && st.Active() != *filter.IsActive {
		return false
	}
	return true
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, st := range repo.query() {
		if matchStudent(st, filter) {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student, isActive *bool) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields; admission number is immutable
	orig, ok := repo.db.table[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if st.Name != "" {
		orig.Name = st.Name
	}
	if st.Grade != 0 {
		orig.Grade = st.Grade
	}
	if st.GuardianName != "" {
		orig.GuardianName = st.GuardianName
	}
	if st.GuardianEmail != "" {
		orig.GuardianEmail = st.GuardianEmail
	}
	if st.GuardianPhone != "" {
		orig.GuardianPhone = st.GuardianPhone
	}
	if isActive != nil {
		orig.SetActive(*isActive)
	}
	if !st.UpdatedAt.IsZero() {
		orig.UpdatedAt = st.UpdatedAt
	}

	repo.db.table[st.ID] = orig
	return *orig, nil
}

func (repo *studentRepository) CountStudents(ctx context.Context, activeOnly bool) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if !activeOnly {
		return len(repo.db.table), nil
	}
	var count int
	for _, st := range repo.query() {
		if st.Active() {
			count++
		}
	}
	return count, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}
