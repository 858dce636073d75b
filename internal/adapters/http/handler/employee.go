package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ogurasousui/roster/internal/core/employee"
	"github.com/ogurasousui/roster/internal/core/listing"
	"github.com/ogurasousui/roster/internal/platform/i18n"
)

// Store はフォーム境界が利用するストア操作の抽象です。
type Store interface {
	ByID(id string) (*employee.Employee, error)
	Upsert(employee.Employee) (string, error)
	Remove(id string)
}

// EmployeeHandler は社員 API の HTTP 実装です。一覧系の状態は
// listing.Engine が所有し、ハンドラは問い合わせと更新の仲介のみを行います。
type EmployeeHandler struct {
	store     Store
	engine    *listing.Engine
	localizer *i18n.Localizer
	clock     employee.Clock
}

// NewEmployeeHandler は EmployeeHandler を生成します。clock が nil の場合は
// UTC の実時刻を使用します。
func NewEmployeeHandler(store Store, engine *listing.Engine, localizer *i18n.Localizer, clock employee.Clock) *EmployeeHandler {
	if clock == nil {
		clock = employee.SystemClock()
	}
	return &EmployeeHandler{store: store, engine: engine, localizer: localizer, clock: clock}
}

// Register はルーティングを登録します。
func (h *EmployeeHandler) Register(r chi.Router) {
	r.Route("/api/employees", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/options", h.options)
		r.Post("/bulk-delete", h.bulkDelete)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.remove)
		})
	})
}

type listResponse struct {
	Items      []*employee.Employee `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
	ViewMode   listing.ViewMode     `json:"viewMode"`
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.engine.SetSearch(q.Get("q"))
	h.engine.SetFilters(listing.Filters{
		FirstName:      q.Get("firstName"),
		LastName:       q.Get("lastName"),
		Email:          q.Get("email"),
		Phone:          q.Get("phone"),
		Department:     q.Get("department"),
		Position:       q.Get("position"),
		EmploymentFrom: q.Get("employmentFrom"),
		EmploymentTo:   q.Get("employmentTo"),
		BirthFrom:      q.Get("birthFrom"),
		BirthTo:        q.Get("birthTo"),
	})

	if view := q.Get("view"); view != "" {
		h.engine.SetViewMode(listing.ViewMode(view))
	}
	if pageRaw := q.Get("page"); pageRaw != "" {
		if page, err := strconv.Atoi(pageRaw); err == nil {
			h.engine.SetPage(page)
		}
	}

	result := h.engine.CurrentPage()
	writeJSON(w, http.StatusOK, listResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		ViewMode:   result.ViewMode,
	})
}

func (h *EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.ByID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var candidate employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	candidate.ID = ""

	if errs := employee.Validate(candidate, h.clock.Now()); len(errs) > 0 {
		h.writeValidationErrors(w, r, errs)
		return
	}

	id, err := h.store.Upsert(candidate)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.ByID(id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var candidate employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	candidate.ID = id

	if errs := employee.Validate(candidate, h.clock.Now()); len(errs) > 0 {
		h.writeValidationErrors(w, r, errs)
		return
	}

	if _, err := h.store.Upsert(candidate); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *EmployeeHandler) remove(w http.ResponseWriter, r *http.Request) {
	h.store.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *EmployeeHandler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.engine.ClearSelection()
	h.engine.Select(req.IDs...)

	deleted, err := h.engine.BulkDelete()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *EmployeeHandler) options(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	switch field {
	case employee.FieldFirstName, employee.FieldLastName, employee.FieldEmail,
		employee.FieldPhone, employee.FieldDepartment, employee.FieldPosition,
		employee.FieldEmploymentDate, employee.FieldBirthDate:
		writeJSON(w, http.StatusOK, map[string][]string{"values": h.engine.UniqueValues(field)})
	default:
		writeError(w, http.StatusBadRequest, "unknown field")
	}
}
