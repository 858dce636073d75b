package employee

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// フィールド識別子。検証結果と一覧フィルタの両方で使用します。
const (
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldEmploymentDate = "employmentDate"
	FieldBirthDate      = "birthDate"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldDepartment     = "department"
	FieldPosition       = "position"
)

// Code は検証違反の種別です。
type Code string

const (
	CodeRequired    Code = "required"
	CodeNameFormat  Code = "name_format"
	CodeEmailFormat Code = "email_format"
	CodePhoneFormat Code = "phone_format"
	CodeNotAllowed  Code = "not_allowed"
	CodeDateInvalid Code = "date_invalid"
	CodeDateFuture  Code = "date_future"
	CodeDateOrder   Code = "date_order"
	CodeMinAge      Code = "min_age"
	CodeConflict    Code = "conflict"
)

// FieldError は 1 件の検証違反を表す構造化データです。
// メッセージ整形は行わず、ローカライズに必要な文脈のみを持ちます。
type FieldError struct {
	Field    string   `json:"field"`
	Code     Code     `json:"code"`
	Min      int      `json:"min,omitempty"`
	Max      int      `json:"max,omitempty"`
	Allowed  []string `json:"allowed,omitempty"`
	Other    string   `json:"other,omitempty"`
	MinYears int      `json:"minYears,omitempty"`
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock は UTC の実時刻を返す Clock を返します。
func SystemClock() Clock {
	return realClock{}
}

const (
	nameMinLength         = 2
	nameMaxLength         = 50
	phoneMinDigits        = 10
	phoneMaxDigits        = 16
	minEmploymentAgeYears = 15

	// DateLayout は日付文字列の唯一の許容形式です。
	DateLayout = "2006-01-02"
)

var (
	namePattern  = regexp.MustCompile(`^[\p{L}\p{M} .'-]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9 ()+.\-]+$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// NormalizeEmail はメールアドレスを前後空白除去と小文字化で正規化します。
// 保管と一意性比較の双方でこの形を正とします。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DigitsOnly は数字以外を取り除いた文字列を返します。
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// Validate は候補レコードを検証し、違反の一覧を返します。空なら受理可能です。
//
// 必須チェックは 8 フィールド全てに対して先に走り、欠落が 1 つでもあれば
// 必須エラーのみを返します。全フィールドが揃っている場合のみ、形式・範囲の
// チェックを独立かつ累積的に評価します。日付は now(UTC) の日付部分と比較します。
func Validate(c Employee, now time.Time) []FieldError {
	if required := requiredErrors(c); len(required) > 0 {
		return required
	}

	var errs []FieldError

	errs = appendNameErrors(errs, FieldFirstName, c.FirstName)
	errs = appendNameErrors(errs, FieldLastName, c.LastName)

	if !emailPattern.MatchString(NormalizeEmail(c.Email)) {
		errs = append(errs, FieldError{Field: FieldEmail, Code: CodeEmailFormat})
	}

	errs = appendPhoneErrors(errs, c.Phone)

	if !isValidDepartment(c.Department) {
		errs = append(errs, FieldError{Field: FieldDepartment, Code: CodeNotAllowed, Allowed: departmentNames()})
	}
	if !isValidPosition(c.Position) {
		errs = append(errs, FieldError{Field: FieldPosition, Code: CodeNotAllowed, Allowed: positionNames()})
	}

	today := truncateToDate(now.UTC())

	birth, birthOK := ParseDate(c.BirthDate)
	if !birthOK {
		errs = append(errs, FieldError{Field: FieldBirthDate, Code: CodeDateInvalid})
	} else if birth.After(today) {
		errs = append(errs, FieldError{Field: FieldBirthDate, Code: CodeDateFuture})
	}

	employment, employmentOK := ParseDate(c.EmploymentDate)
	if !employmentOK {
		errs = append(errs, FieldError{Field: FieldEmploymentDate, Code: CodeDateInvalid})
	} else if employment.After(today) {
		errs = append(errs, FieldError{Field: FieldEmploymentDate, Code: CodeDateFuture})
	}

	if birthOK && employmentOK {
		if employment.Before(birth) {
			errs = append(errs, FieldError{Field: FieldEmploymentDate, Code: CodeDateOrder, Other: FieldBirthDate})
		}
		if wholeYearsBetween(birth, employment) < minEmploymentAgeYears {
			errs = append(errs, FieldError{
				Field:    FieldEmploymentDate,
				Code:     CodeMinAge,
				Other:    FieldBirthDate,
				MinYears: minEmploymentAgeYears,
			})
		}
	}

	return errs
}

// ParseDate は厳密な YYYY-MM-DD のみを受理します。正規化した結果が入力と
// 一致しない文字列(2 月 30 日などの桁あふれを含む)は拒否されます。
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, false
	}
	return t, true
}

func requiredErrors(c Employee) []FieldError {
	var errs []FieldError
	appendRequired := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, FieldError{Field: field, Code: CodeRequired})
		}
	}

	appendRequired(FieldFirstName, c.FirstName)
	appendRequired(FieldLastName, c.LastName)
	appendRequired(FieldEmploymentDate, c.EmploymentDate)
	appendRequired(FieldBirthDate, c.BirthDate)
	appendRequired(FieldPhone, c.Phone)
	appendRequired(FieldEmail, c.Email)
	appendRequired(FieldDepartment, string(c.Department))
	appendRequired(FieldPosition, string(c.Position))
	return errs
}

func appendNameErrors(errs []FieldError, field, value string) []FieldError {
	length := utf8.RuneCountInString(value)
	if length < nameMinLength || length > nameMaxLength || !namePattern.MatchString(value) {
		return append(errs, FieldError{Field: field, Code: CodeNameFormat, Min: nameMinLength, Max: nameMaxLength})
	}
	return errs
}

func appendPhoneErrors(errs []FieldError, value string) []FieldError {
	digits := len(DigitsOnly(value))
	if !phonePattern.MatchString(value) || digits < phoneMinDigits || digits > phoneMaxDigits {
		return append(errs, FieldError{Field: FieldPhone, Code: CodePhoneFormat, Min: phoneMinDigits, Max: phoneMaxDigits})
	}
	return errs
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// wholeYearsBetween は月日を考慮した満年数を返します。単純な年の引き算ではなく、
// 記念日を迎えていない年は数えません。
func wholeYearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
