package inmemdb

import (
	"sync"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/payroll"
	"github.com/shuletech/shule/core/report"
	"github.com/shuletech/shule/core/school"
	"github.com/shuletech/shule/core/student"
	"github.com/shuletech/shule/core/user"
)

// DB is a mutex-guarded map store. It backs the API tests and local runs
// without a database server.
type (
	DB struct {
		user    *userTable
		student *studentTable
		finance *financeTable
		payroll *payrollTable
		report  *reportTable
		school  *schoolTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	studentTable struct {
		table map[string]*student.Student
		mutex sync.RWMutex
	}

	financeTable struct {
		// transactions keep insertion order; the statement fold's tie-break
		// on equal dates depends on it.
		transactions  []finance.Transaction
		requirements  map[string]*finance.Requirement
		contributions map[string]*finance.Contribution
		exemptions    map[string]bool // requirementID + "/" + studentID
		mutex         sync.RWMutex
	}

	payrollTable struct {
		structures map[string]*payroll.SalaryStructure
		mutex      sync.RWMutex
	}

	reportTable struct {
		configs map[string]*report.WeightConfig // grade + "/" + term
		scores  map[string]*report.Score
		mutex   sync.RWMutex
	}

	schoolTable struct {
		profile       *school.Profile
		sections      map[string]*school.Section
		announcements map[string]*school.Announcement
		mutex         sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		student: &studentTable{table: make(map[string]*student.Student)},
		finance: &financeTable{
			requirements:  make(map[string]*finance.Requirement),
			contributions: make(map[string]*finance.Contribution),
			exemptions:    make(map[string]bool),
		},
		payroll: &payrollTable{structures: make(map[string]*payroll.SalaryStructure)},
		report: &reportTable{
			configs: make(map[string]*report.WeightConfig),
			scores:  make(map[string]*report.Score),
		},
		school: &schoolTable{
			sections:      make(map[string]*school.Section),
			announcements: make(map[string]*school.Announcement),
		},
	}
	return db, nil
}

// Reset drops all stored records. Tests call this between cases.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.student.mutex.Lock()
	db.student.table = make(map[string]*student.Student)
	db.student.mutex.Unlock()

	db.finance.mutex.Lock()
	db.finance.transactions = nil
	db.finance.requirements = make(map[string]*finance.Requirement)
	db.finance.contributions = make(map[string]*finance.Contribution)
	db.finance.exemptions = make(map[string]bool)
	db.finance.mutex.Unlock()

	db.payroll.mutex.Lock()
	db.payroll.structures = make(map[string]*payroll.SalaryStructure)
	db.payroll.mutex.Unlock()

	db.report.mutex.Lock()
	db.report.configs = make(map[string]*report.WeightConfig)
	db.report.scores = make(map[string]*report.Score)
	db.report.mutex.Unlock()

	db.school.mutex.Lock()
	db.school.profile = nil
	db.school.sections = make(map[string]*school.Section)
	db.school.announcements = make(map[string]*school.Announcement)
	db.school.mutex.Unlock()
}
