package model

// Student is a single student record. ID 0 means no id has been assigned yet.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,coarse_email"`
	Age   string `json:"age" validate:"required"`
}

// Field names an editable field of a Student.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldAge   Field = "age"
)

// Set writes value into the named field and reports whether the field exists.
func (s *Student) Set(field Field, value string) bool {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldAge:
		s.Age = value
	default:
		return false
	}
	return true
}
