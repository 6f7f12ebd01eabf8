package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type scheduleForm struct {
	Date   string `validate:"date"`
	Time   string `validate:"clock"`
	Status string `validate:"schedulestatus"`
}

func TestCustomRules(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("register: %v", err)
	}

	valid := []scheduleForm{
		{Date: "2024-03-05", Time: "09:00", Status: "A_CONFIRMAR"},
		{Date: "2024-03-05T12:00:00Z", Time: "23:59", Status: "CONCLUIDO"},
	}
	for _, f := range valid {
		if err := v.Struct(f); err != nil {
			t.Fatalf("expected %+v to be valid, got %v", f, err)
		}
	}

	invalid := map[string]scheduleForm{
		"date":           {Date: "05/03/2024", Time: "09:00", Status: "AGENDADO"},
		"clock":          {Date: "2024-03-05", Time: "9h", Status: "AGENDADO"},
		"schedulestatus": {Date: "2024-03-05", Time: "09:00", Status: "agendado"},
	}
	for tag, f := range invalid {
		err := v.Struct(f)
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) != 1 {
			t.Fatalf("%s: expected one validation error, got %v", tag, err)
		}
		if verrs[0].Tag() != tag {
			t.Fatalf("expected tag %s, got %s", tag, verrs[0].Tag())
		}
	}
}
