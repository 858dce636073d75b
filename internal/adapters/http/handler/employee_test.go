package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/roster/internal/core/employee"
	"github.com/ogurasousui/roster/internal/core/listing"
	"github.com/ogurasousui/roster/internal/platform/i18n"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

func newTestHandler(t *testing.T) (*EmployeeHandler, *employee.Store) {
	t.Helper()

	n := 0
	store := employee.NewStore(nil, func() string {
		n++
		return fmt.Sprintf("emp-%d", n)
	}, nil)

	engine := listing.NewEngine(store, 10, 6)
	localizer := i18n.New("en")
	clock := &stubClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	return NewEmployeeHandler(store, engine, localizer, clock), store
}

func requestBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func validPayload(n int) employee.Employee {
	return employee.Employee{
		FirstName:      "Anna",
		LastName:       fmt.Sprintf("Kovács%d", n),
		EmploymentDate: "2020-04-01",
		BirthDate:      "1990-01-15",
		Phone:          "06301234567",
		Email:          fmt.Sprintf("anna%d@example.com", n),
		Department:     employee.DepartmentTech,
		Position:       employee.PositionMedior,
	}
}

func TestEmployeeHandler_CreateAndGet(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	router := NewRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/employees", requestBody(t, validPayload(1)))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created["id"] == "" {
		t.Fatalf("expected assigned id in response")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/employees/"+created["id"], nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fetched employee.Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode employee: %v", err)
	}
	if fetched.Email != "anna1@example.com" {
		t.Fatalf("unexpected employee: %+v", fetched)
	}
}

func TestEmployeeHandler_CreateValidationErrors(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	router := NewRouter(h)

	payload := validPayload(1)
	payload.BirthDate = "2020-02-30"
	payload.Phone = "123"

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/employees", requestBody(t, payload))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode errors: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected 2 cumulative errors, got %+v", resp.Errors)
	}
	for _, item := range resp.Errors {
		if item.Message == "" {
			t.Fatalf("expected localized message, got %+v", item)
		}
	}
}

func TestEmployeeHandler_CreateConflictIsAttributedToEmail(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	router := NewRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/employees", requestBody(t, validPayload(1))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	duplicate := validPayload(2)
	duplicate.Email = "ANNA1@example.com"

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/employees", requestBody(t, duplicate))
	req.Header.Set("Accept-Language", "hu")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode errors: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != employee.FieldEmail || resp.Errors[0].Code != employee.CodeConflict {
		t.Fatalf("expected conflict on email, got %+v", resp.Errors)
	}
	if !strings.Contains(resp.Errors[0].Message, "e-mail cím") {
		t.Fatalf("expected hungarian message, got %q", resp.Errors[0].Message)
	}
}

func TestEmployeeHandler_UpdateUnknownID(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	router := NewRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/employees/missing", requestBody(t, validPayload(1)))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEmployeeHandler_ListWithFiltersAndPaging(t *testing.T) {
	t.Parallel()

	h, store := newTestHandler(t)
	router := NewRouter(h)

	for i := 1; i <= 15; i++ {
		payload := validPayload(i)
		if i%3 == 0 {
			payload.Department = employee.DepartmentAnalytics
		}
		if _, err := store.Upsert(payload); err != nil {
			t.Fatalf("unexpected seed error: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/employees?page=2", nil)
	router.ServeHTTP(rec, req)

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if resp.Total != 15 || resp.TotalPages != 2 || resp.Page != 2 || len(resp.Items) != 5 {
		t.Fatalf("unexpected paging: %+v", resp)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/employees?department=Analytics", nil)
	router.ServeHTTP(rec, req)

	resp = listResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if resp.Total != 5 || resp.Page != 1 {
		t.Fatalf("expected filter to reset page and narrow list, got %+v", resp)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/employees?view=cards", nil)
	router.ServeHTTP(rec, req)

	resp = listResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if resp.PageSize != 6 || resp.ViewMode != listing.ViewModeCards {
		t.Fatalf("expected card view page size, got %+v", resp)
	}
}

func TestEmployeeHandler_BulkDelete(t *testing.T) {
	t.Parallel()

	h, store := newTestHandler(t)
	router := NewRouter(h)

	var ids []string
	for i := 1; i <= 3; i++ {
		id, err := store.Upsert(validPayload(i))
		if err != nil {
			t.Fatalf("unexpected seed error: %v", err)
		}
		ids = append(ids, id)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/employees/bulk-delete", requestBody(t, bulkDeleteRequest{IDs: ids[:1]}))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected single selection to be rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/employees/bulk-delete", requestBody(t, bulkDeleteRequest{IDs: ids[:2]}))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["deleted"] != 2 {
		t.Fatalf("expected 2 deletions, got %+v", resp)
	}

	all := store.All()
	if len(all) != 1 || all[0].ID != ids[2] {
		t.Fatalf("expected only the unselected record to remain, got %+v", all)
	}
}

func TestEmployeeHandler_RowLevelDelete(t *testing.T) {
	t.Parallel()

	h, store := newTestHandler(t)
	router := NewRouter(h)

	id, err := store.Upsert(validPayload(1))
	if err != nil {
		t.Fatalf("unexpected seed error: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/employees/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.Count() != 0 {
		t.Fatalf("expected record removed")
	}
}

func TestEmployeeHandler_Options(t *testing.T) {
	t.Parallel()

	h, store := newTestHandler(t)
	router := NewRouter(h)

	for i := 1; i <= 4; i++ {
		payload := validPayload(i)
		if i%2 == 0 {
			payload.Department = employee.DepartmentAnalytics
		}
		if _, err := store.Upsert(payload); err != nil {
			t.Fatalf("unexpected seed error: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/options?field=department", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := resp["values"]; len(got) != 2 || got[0] != "Analytics" || got[1] != "Tech" {
		t.Fatalf("expected sorted departments, got %v", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/options?field=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field to be rejected, got %d", rec.Code)
	}
}
