package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shuletech/shule/core/student"
	"github.com/shuletech/shule/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, admissionNo string,
	grade int,
	guardianName, guardianEmail string,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st := student.Student{
		ID:            uuid.New().String(),
		Name:          name,
		AdmissionNo:   admissionNo,
		Grade:         grade,
		GuardianName:  guardianName,
		GuardianEmail: guardianEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	st.SetActive(true)
	st, err := repo.CreateStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}
