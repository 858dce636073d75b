package employee

import (
	"errors"
	"fmt"
)

var (
	ErrEmployeeNotFound = errors.New("employee: not found")
)

// ConflictError は一意性の侵害を表し、衝突したフィールド識別子を保持します。
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("employee: %s already exists", e.Field)
}

// ErrEmailAlreadyExists は正規化済みメールアドレスの重複を示します。
// errors.Is による判別と errors.As によるフィールド抽出の両方に使えます。
var ErrEmailAlreadyExists = &ConflictError{Field: FieldEmail}
