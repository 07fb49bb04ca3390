package user

import (
	"testing"
	"time"

	"github.com/shuletech/shule/core"
)

func TestMain(m *testing.M) {
	core.NewConfig()
	core.InitValidation()
	InitValidators()
	m.Run()
}

func Test_MakeToken_roundTrip(t *testing.T) {
	usr := User{ID: "4f9f90d4-2700-47a3-ae5c-ce8ef1a683c4", Email: "jdoe@shule.cd"}
	if err := usr.SetPassword("S3cret#Pass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}

	token, err := MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	if err = VerifyToken(usr, token); err != nil {
		t.Errorf("VerifyToken() = %v; want nil", err)
	}

	t.Run("empty token", func(t *testing.T) {
		if err := VerifyToken(usr, ""); err != errInvalidToken {
			t.Errorf("VerifyToken() = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		if err := VerifyToken(usr, token+"x"); err != errInvalidToken {
			t.Errorf("VerifyToken() = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("password change invalidates", func(t *testing.T) {
		changed := usr
		if err := changed.SetPassword("An0ther#Pass"); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
		if err := VerifyToken(changed, token); err != errInvalidToken {
			t.Errorf("VerifyToken() = %v; want %v", err, errInvalidToken)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		defer func() { NowFunc = time.Now }()

		NowFunc = func() time.Time {
			return time.Now().Add(-(core.Conf.PasswordResetTimeoutDelta + 48*time.Hour))
		}
		oldToken, err := MakeToken(usr)
		if err != nil {
			t.Fatalf("MakeToken() failed: %v", err)
		}

		NowFunc = time.Now
		if err = VerifyToken(usr, oldToken); err != errTokenExpired {
			t.Errorf("VerifyToken() = %v; want %v", err, errTokenExpired)
		}
	})
}
