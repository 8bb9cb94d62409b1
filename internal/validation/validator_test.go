package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-manager/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		draft     model.Student
		wantField model.Field
		wantRule  Rule
	}{
		{"valid", model.Student{Name: "Ann", Email: "ann@test.com", Age: "21"}, "", ""},
		{"empty name", model.Student{Name: "", Email: "a@b.com", Age: "20"}, model.FieldName, RuleRequired},
		{"whitespace name is not trimmed", model.Student{Name: " ", Email: "a@b.com", Age: "20"}, "", ""},
		{"empty email", model.Student{Name: "Ann", Email: "", Age: "21"}, model.FieldEmail, RuleRequired},
		{"malformed email", model.Student{Name: "Ann", Email: "not-an-email", Age: "21"}, model.FieldEmail, RuleEmail},
		{"email without dot", model.Student{Name: "Ann", Email: "ann@test", Age: "21"}, model.FieldEmail, RuleEmail},
		{"no-break space after dot", model.Student{Name: "Ann", Email: "ann@test.\u00a0com", Age: "21"}, model.FieldEmail, RuleEmail},
		{"vertical tab after dot", model.Student{Name: "Ann", Email: "ann@test.\vcom", Age: "21"}, model.FieldEmail, RuleEmail},
		{"em space before at", model.Student{Name: "Ann", Email: "ann\u2003@test.com", Age: "21"}, model.FieldEmail, RuleEmail},
		{"byte order mark before at", model.Student{Name: "Ann", Email: "ann\ufeff@test.com", Age: "21"}, model.FieldEmail, RuleEmail},
		{"non-ascii letters accepted", model.Student{Name: "Ann", Email: "анна@тест.рф", Age: "21"}, "", ""},
		{"email embedded in text", model.Student{Name: "Ann", Email: "mail me: ann@test.com please", Age: "21"}, "", ""},
		{"empty age", model.Student{Name: "Ann", Email: "ann@test.com", Age: ""}, model.FieldAge, RuleRequired},
		{"name checked before email", model.Student{Name: "", Email: "bad", Age: ""}, model.FieldName, RuleRequired},
		{"email format checked before age", model.Student{Name: "Ann", Email: "bad", Age: ""}, model.FieldEmail, RuleEmail},
		{"everything empty", model.Student{}, model.FieldName, RuleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.draft)
			if tt.wantField == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantField, got.Field)
			assert.Equal(t, tt.wantRule, got.Rule)
		})
	}
}

func TestValidationErrorMessageKey(t *testing.T) {
	err := &ValidationError{Field: model.FieldEmail, Rule: RuleEmail}
	assert.Equal(t, "email_email", err.MessageKey())
	assert.EqualError(t, err, "email: email")
}
