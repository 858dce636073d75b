package employee

// Department は部署の閉じた選択肢です。
type Department string

const (
	DepartmentAnalytics Department = "Analytics"
	DepartmentTech      Department = "Tech"
)

// Position は職位の閉じた選択肢です。
type Position string

const (
	PositionJunior Position = "Junior"
	PositionMedior Position = "Medior"
	PositionSenior Position = "Senior"
)

// Departments は選択可能な部署の一覧を返します。
func Departments() []Department {
	return []Department{DepartmentAnalytics, DepartmentTech}
}

// Positions は選択可能な職位の一覧を返します。
func Positions() []Position {
	return []Position{PositionJunior, PositionMedior, PositionSenior}
}

// Employee は社員レコードです。日付は YYYY-MM-DD 形式の文字列として保持します。
type Employee struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	EmploymentDate string     `json:"employmentDate"`
	BirthDate      string     `json:"birthDate"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Department     Department `json:"department"`
	Position       Position   `json:"position"`
}

// FieldValue はフィールド識別子に対応する値を返します。未知の識別子は空文字列です。
func (e *Employee) FieldValue(field string) string {
	switch field {
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	case FieldEmploymentDate:
		return e.EmploymentDate
	case FieldBirthDate:
		return e.BirthDate
	case FieldPhone:
		return e.Phone
	case FieldEmail:
		return e.Email
	case FieldDepartment:
		return string(e.Department)
	case FieldPosition:
		return string(e.Position)
	default:
		return ""
	}
}

func cloneEmployee(e *Employee) *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

func isValidDepartment(d Department) bool {
	switch d {
	case DepartmentAnalytics, DepartmentTech:
		return true
	default:
		return false
	}
}

func isValidPosition(p Position) bool {
	switch p {
	case PositionJunior, PositionMedior, PositionSenior:
		return true
	default:
		return false
	}
}

func departmentNames() []string {
	departments := Departments()
	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, string(d))
	}
	return names
}

func positionNames() []string {
	positions := Positions()
	names := make([]string, 0, len(positions))
	for _, p := range positions {
		names = append(names, string(p))
	}
	return names
}
