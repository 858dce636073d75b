package employee

import (
	"testing"
	"time"
)

func validCandidate() Employee {
	return Employee{
		FirstName:      "Taro",
		LastName:       "Yamada",
		EmploymentDate: "2020-04-01",
		BirthDate:      "1990-01-15",
		Phone:          "+36 (30) 123-4567",
		Email:          "taro.yamada@example.com",
		Department:     DepartmentTech,
		Position:       PositionJunior,
	}
}

var validationNow = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func TestValidate_ValidCandidate(t *testing.T) {
	t.Parallel()

	if errs := Validate(validCandidate(), validationNow); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidate_RequiredShortCircuit(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.FirstName = ""
	c.Email = "   "
	c.Department = ""
	// 形式違反も同時に仕込むが、必須エラーのみが返るはず。
	c.Phone = "abc"

	errs := Validate(c, validationNow)
	if len(errs) != 3 {
		t.Fatalf("expected 3 required errors, got %+v", errs)
	}
	for _, fe := range errs {
		if fe.Code != CodeRequired {
			t.Fatalf("expected only required errors, got %+v", fe)
		}
	}

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	for _, want := range []string{FieldFirstName, FieldEmail, FieldDepartment} {
		if !fields[want] {
			t.Fatalf("expected required error for %s, got %+v", want, errs)
		}
	}
}

func TestValidate_AllRequiredMissing(t *testing.T) {
	t.Parallel()

	errs := Validate(Employee{}, validationNow)
	if len(errs) != 8 {
		t.Fatalf("expected one required error per field, got %d: %+v", len(errs), errs)
	}
}

func TestValidate_NameShape(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.FirstName = "X"
	errs := Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Field != FieldFirstName || errs[0].Code != CodeNameFormat {
		t.Fatalf("expected name_format on firstName, got %+v", errs)
	}
	if errs[0].Min != 2 || errs[0].Max != 50 {
		t.Fatalf("expected bounds 2-50, got %+v", errs[0])
	}

	c = validCandidate()
	c.LastName = "Sm1th"
	errs = Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Field != FieldLastName || errs[0].Code != CodeNameFormat {
		t.Fatalf("expected name_format on lastName, got %+v", errs)
	}
}

func TestValidate_UnicodeName(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.FirstName = "Ådne"
	c.LastName = "O'Brien-Nagy Jr."
	if errs := Validate(c, validationNow); len(errs) != 0 {
		t.Fatalf("expected unicode name to pass, got %+v", errs)
	}
}

func TestValidate_EmailShape(t *testing.T) {
	t.Parallel()

	for _, email := range []string{"no-at.example.com", "two@@example.com", "missing@tld", "sp ace@example.com"} {
		c := validCandidate()
		c.Email = email
		errs := Validate(c, validationNow)
		if len(errs) != 1 || errs[0].Field != FieldEmail || errs[0].Code != CodeEmailFormat {
			t.Fatalf("expected email_format for %q, got %+v", email, errs)
		}
	}
}

func TestValidate_Phone(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.Phone = "123456789" // 9 digits
	errs := Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Code != CodePhoneFormat {
		t.Fatalf("expected phone_format for short number, got %+v", errs)
	}

	c.Phone = "12345678901234567" // 17 digits
	errs = Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Code != CodePhoneFormat {
		t.Fatalf("expected phone_format for long number, got %+v", errs)
	}

	c.Phone = "1234567890x" // forbidden character
	errs = Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Code != CodePhoneFormat {
		t.Fatalf("expected phone_format for forbidden character, got %+v", errs)
	}

	c.Phone = "+1 (555) 123-45.67"
	if errs := Validate(c, validationNow); len(errs) != 0 {
		t.Fatalf("expected formatted number to pass, got %+v", errs)
	}
}

func TestValidate_ClosedSets(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.Department = "Finance"
	c.Position = "Intern"

	errs := Validate(c, validationNow)
	if len(errs) != 2 {
		t.Fatalf("expected 2 set membership errors, got %+v", errs)
	}
	for _, fe := range errs {
		if fe.Code != CodeNotAllowed || len(fe.Allowed) == 0 {
			t.Fatalf("expected not_allowed with allowed set, got %+v", fe)
		}
	}
}

func TestValidate_ImpossibleDates(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"1990-13-01", "2020-02-30", "1990-1-1", "01-01-1990", "1990/01/01"} {
		c := validCandidate()
		c.BirthDate = date
		errs := Validate(c, validationNow)
		found := false
		for _, fe := range errs {
			if fe.Field == FieldBirthDate && fe.Code == CodeDateInvalid {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected date_invalid for %q, got %+v", date, errs)
		}
	}
}

func TestValidate_FutureDates(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.EmploymentDate = "2025-06-02" // now は 2025-06-01
	errs := Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Field != FieldEmploymentDate || errs[0].Code != CodeDateFuture {
		t.Fatalf("expected date_future, got %+v", errs)
	}

	// 当日は未来ではない。
	c.EmploymentDate = "2025-06-01"
	if errs := Validate(c, validationNow); len(errs) != 0 {
		t.Fatalf("expected today to pass, got %+v", errs)
	}
}

func TestValidate_EmploymentBeforeBirth(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.BirthDate = "1990-01-15"
	c.EmploymentDate = "1989-01-15"

	errs := Validate(c, validationNow)
	var order, minAge bool
	for _, fe := range errs {
		if fe.Field == FieldEmploymentDate && fe.Code == CodeDateOrder && fe.Other == FieldBirthDate {
			order = true
		}
		if fe.Code == CodeMinAge {
			minAge = true
		}
	}
	if !order || !minAge {
		t.Fatalf("expected date_order and min_age, got %+v", errs)
	}
}

func TestValidate_MinimumAgeBoundary(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.BirthDate = "2010-01-01"
	c.EmploymentDate = "2024-01-01" // 満 14 歳

	errs := Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Code != CodeMinAge || errs[0].MinYears != 15 {
		t.Fatalf("expected min_age violation at 14 years, got %+v", errs)
	}

	c.EmploymentDate = "2025-01-01" // 満 15 歳ちょうど
	if errs := Validate(c, validationNow); len(errs) != 0 {
		t.Fatalf("expected 15th anniversary to pass, got %+v", errs)
	}

	// 記念日前日はまだ満 14 歳。
	c.EmploymentDate = "2024-12-31"
	errs = Validate(c, validationNow)
	if len(errs) != 1 || errs[0].Code != CodeMinAge {
		t.Fatalf("expected min_age the day before the anniversary, got %+v", errs)
	}
}

func TestValidate_EmailCaseNormalizedBeforeShapeCheck(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c.Email = "  Taro.Yamada@Example.COM  "
	if errs := Validate(c, validationNow); len(errs) != 0 {
		t.Fatalf("expected padded mixed-case email to pass, got %+v", errs)
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	t.Parallel()

	if _, ok := ParseDate("2024-02-29"); !ok {
		t.Fatalf("expected leap day to parse")
	}
	if _, ok := ParseDate("2023-02-29"); ok {
		t.Fatalf("expected non-leap Feb 29 to be rejected")
	}
}
