package student

import (
	"time"

	"github.com/shuletech/shule/core"
)

// Student is an enrolled learner's record. Guardian contacts live here so
// finance and report mail can reach home.
type Student struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	AdmissionNo   string    `json:"admission_no" db:"admission_no"`
	Grade         int       `json:"grade" db:"grade"`
	GuardianName  string    `json:"guardian_name" db:"guardian_name"`
	GuardianEmail string    `json:"guardian_email" db:"guardian_email"`
	GuardianPhone string    `json:"guardian_phone" db:"guardian_phone"`
	IsActive      *bool     `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s *Student) SetActive(active bool) { s.IsActive = &active }

func (s *Student) Active() bool { return s.IsActive != nil && *s.IsActive }

// NewStudent contains information needed to admit a new Student.
type NewStudent struct {
	Name          string `json:"name" validate:"required"`
	AdmissionNo   string `json:"admission_no" validate:"required,alphanum_"`
	Grade         int    `json:"grade" validate:"min=0"`
	GuardianName  string `json:"guardian_name"`
	GuardianEmail string `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string `json:"guardian_phone"`
}

func (ns *NewStudent) Validate(svc ServiceInterface) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AdmissionNo = core.CleanString(ns.AdmissionNo, true /* lower */)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckAdmissionNoUniqueness(ns.AdmissionNo)
}

// UpdateStudent defines what may be modified on an existing Student.
// Admission numbers are immutable once issued.
type UpdateStudent struct {
	Name          string `json:"name"`
	Grade         *int   `json:"grade" validate:"omitempty,min=0"`
	GuardianName  string `json:"guardian_name"`
	GuardianEmail string `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string `json:"guardian_phone"`
	IsActive      *bool  `json:"is_active"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if us.Grade == nil {
		us.Grade = &orig.Grade
	}
	us.GuardianName = core.CleanString(us.GuardianName)
	us.GuardianEmail = core.CleanString(us.GuardianEmail, true /* lower */)
	if us.GuardianName == "" {
		us.GuardianName = orig.GuardianName
	}
	if us.GuardianEmail == "" {
		us.GuardianEmail = orig.GuardianEmail
	}
	if us.GuardianPhone == "" {
		us.GuardianPhone = orig.GuardianPhone
	}
	return core.Validate.Struct(us)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Grade    *int   `query:"grade"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Grade == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
