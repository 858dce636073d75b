// Package i18n は検証エラーコードを英語・ハンガリー語のメッセージへ
// 変換します。検証エンジン自体は文言を持たないため、文言の解決は
// すべてこの境界で行います。
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/ogurasousui/roster/internal/core/employee"
)

var supported = []language.Tag{language.English, language.Hungarian}

var matcher = language.NewMatcher(supported)

// Localizer は既定ロケールを持つメッセージ解決器です。
type Localizer struct {
	defaultTag language.Tag
}

// New は Localizer を生成します。未知のロケールは英語として扱います。
func New(defaultLocale string) *Localizer {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	tag, _, _ = matcher.Match(tag)
	return &Localizer{defaultTag: tag}
}

// Match は Accept-Language ヘッダから対応ロケールを選びます。空または
// 解釈不能な場合は既定ロケールです。
func (l *Localizer) Match(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return l.defaultTag
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.defaultTag
	}
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// Message は 1 件の検証違反をロケールに応じた文へ変換します。
func (l *Localizer) Message(tag language.Tag, fe employee.FieldError) string {
	if isHungarian(tag) {
		return hungarianMessage(fe)
	}
	return englishMessage(fe)
}

func isHungarian(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "hu"
}

func englishMessage(fe employee.FieldError) string {
	field := englishFieldLabels[fe.Field]
	if field == "" {
		field = fe.Field
	}

	switch fe.Code {
	case employee.CodeRequired:
		return fmt.Sprintf("%s is required.", field)
	case employee.CodeNameFormat:
		return fmt.Sprintf("%s must be %d-%d letters.", field, fe.Min, fe.Max)
	case employee.CodeEmailFormat:
		return "Enter a valid email address."
	case employee.CodePhoneFormat:
		return fmt.Sprintf("Phone number must contain %d-%d digits.", fe.Min, fe.Max)
	case employee.CodeNotAllowed:
		return fmt.Sprintf("%s must be one of: %s.", field, strings.Join(fe.Allowed, ", "))
	case employee.CodeDateInvalid:
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", field)
	case employee.CodeDateFuture:
		return fmt.Sprintf("%s must not be in the future.", field)
	case employee.CodeDateOrder:
		return "Employment date must not be before birth date."
	case employee.CodeMinAge:
		return fmt.Sprintf("Employee must be at least %d years old at employment.", fe.MinYears)
	case employee.CodeConflict:
		return "This email address is already in use."
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

func hungarianMessage(fe employee.FieldError) string {
	field := hungarianFieldLabels[fe.Field]
	if field == "" {
		field = fe.Field
	}

	switch fe.Code {
	case employee.CodeRequired:
		return fmt.Sprintf("A(z) %s megadása kötelező.", field)
	case employee.CodeNameFormat:
		return fmt.Sprintf("A(z) %s hossza %d és %d betű között lehet.", field, fe.Min, fe.Max)
	case employee.CodeEmailFormat:
		return "Érvényes e-mail címet adjon meg."
	case employee.CodePhoneFormat:
		return fmt.Sprintf("A telefonszámnak %d és %d közötti számjegyet kell tartalmaznia.", fe.Min, fe.Max)
	case employee.CodeNotAllowed:
		return fmt.Sprintf("A(z) %s értéke csak a következők egyike lehet: %s.", field, strings.Join(fe.Allowed, ", "))
	case employee.CodeDateInvalid:
		return fmt.Sprintf("A(z) %s érvényes dátum legyen (ÉÉÉÉ-HH-NN).", field)
	case employee.CodeDateFuture:
		return fmt.Sprintf("A(z) %s nem lehet jövőbeli dátum.", field)
	case employee.CodeDateOrder:
		return "A munkába állás dátuma nem lehet a születési dátum előtt."
	case employee.CodeMinAge:
		return fmt.Sprintf("A munkavállalónak legalább %d évesnek kell lennie a munkába álláskor.", fe.MinYears)
	case employee.CodeConflict:
		return "Ez az e-mail cím már használatban van."
	default:
		return fmt.Sprintf("A(z) %s értéke érvénytelen.", field)
	}
}

var englishFieldLabels = map[string]string{
	employee.FieldFirstName:      "First name",
	employee.FieldLastName:       "Last name",
	employee.FieldEmploymentDate: "Employment date",
	employee.FieldBirthDate:      "Birth date",
	employee.FieldPhone:          "Phone number",
	employee.FieldEmail:          "Email address",
	employee.FieldDepartment:     "Department",
	employee.FieldPosition:       "Position",
}

var hungarianFieldLabels = map[string]string{
	employee.FieldFirstName:      "keresztnév",
	employee.FieldLastName:       "vezetéknév",
	employee.FieldEmploymentDate: "munkába állás dátuma",
	employee.FieldBirthDate:      "születési dátum",
	employee.FieldPhone:          "telefonszám",
	employee.FieldEmail:          "e-mail cím",
	employee.FieldDepartment:     "részleg",
	employee.FieldPosition:       "pozíció",
}
