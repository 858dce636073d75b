package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ogurasousui/roster/internal/core/employee"
	"github.com/ogurasousui/roster/internal/core/listing"
)

type errorItem struct {
	employee.FieldError
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []errorItem `json:"errors"`
}

// writeValidationErrors は構造化コードとローカライズ済みメッセージの
// 両方を載せた 422 応答を書き出します。
func (h *EmployeeHandler) writeValidationErrors(w http.ResponseWriter, r *http.Request, errs []employee.FieldError) {
	tag := h.localizer.Match(r.Header.Get("Accept-Language"))

	items := make([]errorItem, 0, len(errs))
	for _, fe := range errs {
		items = append(items, errorItem{FieldError: fe, Message: h.localizer.Message(tag, fe)})
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: items})
}

// writeDomainError はドメイン層のエラーを HTTP ステータスへ対応付けます。
// 一意性の衝突は 409 とし、メールフィールドに帰属するエラーとして返します。
func (h *EmployeeHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *employee.ConflictError
	switch {
	case errors.As(err, &conflict):
		tag := h.localizer.Match(r.Header.Get("Accept-Language"))
		fe := employee.FieldError{Field: conflict.Field, Code: employee.CodeConflict}
		writeJSON(w, http.StatusConflict, errorsResponse{
			Errors: []errorItem{{FieldError: fe, Message: h.localizer.Message(tag, fe)}},
		})
	case errors.Is(err, employee.ErrEmployeeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, listing.ErrSelectionTooSmall):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
