package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signupForm struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

func validate(v any) error {
	Init()
	return binding.Validator.ValidateStruct(v)
}

func TestToDetailsNil(t *testing.T) {
	if d := ToDetails(nil); d != nil {
		t.Errorf("ToDetails(nil) = %v, want nil", d)
	}
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var form signupForm
	err := json.Unmarshal([]byte(`{"username":`), &form)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if d := ToDetails(err); d["payload"] != "invalid json" {
		t.Errorf("details = %v", d)
	}

	err = json.Unmarshal([]byte(`{"username": 42}`), &form)
	if err == nil {
		t.Fatal("expected a type error")
	}
	if d := ToDetails(err); d["payload"] != "invalid json" {
		t.Errorf("details = %v", d)
	}
}

func TestToDetailsReportsEveryField(t *testing.T) {
	err := validate(&signupForm{})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	d := ToDetails(err)
	for _, field := range []string{"username", "email", "password"} {
		if d[field] != "is required" {
			t.Errorf("d[%s] = %q, want \"is required\"", field, d[field])
		}
	}
}

func TestToDetailsMessages(t *testing.T) {
	err := validate(&signupForm{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
		Role:     "root",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	d := ToDetails(err)

	want := map[string]string{
		"username": "must be at least 3 characters long",
		"email":    "must be a valid email",
		"password": "must be at least 6 characters long",
		"role":     "must be one of: user, admin",
	}
	for field, msg := range want {
		if d[field] != msg {
			t.Errorf("d[%s] = %q, want %q", field, d[field], msg)
		}
	}
}

func TestToDetailsUnknownError(t *testing.T) {
	d := ToDetails(errors.New("boom"))
	if d["payload"] != "invalid payload" {
		t.Errorf("details = %v", d)
	}
}
