package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloo-solutions/tryonadmin/internal/api"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/jobs"
	"github.com/cloo-solutions/tryonadmin/internal/logtable"
	"github.com/cloo-solutions/tryonadmin/internal/pagination"
	"github.com/cloo-solutions/tryonadmin/internal/telemetry"
	"github.com/go-chi/chi/v5"
)

// LogTable is the controller surface the console drives.
type LogTable interface {
	Snapshot() logtable.Snapshot
	Filters() map[logtable.Field]string
	Sort() logtable.SortSpec
	SetFilter(field logtable.Field, raw string)
	UnsetFilter(field logtable.Field)
	ClearFilters()
	SetSort(spec logtable.SortSpec) bool
	Clear()
	Len() int
}

// LogRefresher triggers and reports polls. It is nil in streaming mode.
type LogRefresher interface {
	Refresh(ctx context.Context) (jobs.PollResult, error)
	Status() jobs.PollStatus
}

var errPollingDisabled = domain.NewDomainError(domain.ErrCodeNotFound, "log polling is disabled in streaming mode")

type LogHandler struct {
	table     LogTable
	refresher LogRefresher
	source    string
}

// NewLogHandler creates a LogHandler. source names the log source shown by
// Status ("poll" or "stream"); refresher may be nil.
func NewLogHandler(table LogTable, refresher LogRefresher, source string) *LogHandler {
	return &LogHandler{table: table, refresher: refresher, source: source}
}

type LogPage struct {
	Items   []domain.LogRecord        `json:"items"`
	Cursor  string                    `json:"cursor,omitempty"`
	HasMore bool                      `json:"has_more"`
	Total   int                       `json:"total"`
	Size    int                       `json:"collection_size"`
	Version uint64                    `json:"version"`
	Filters map[logtable.Field]string `json:"filters"`
	Sort    logtable.SortSpec         `json:"sort"`
}

// List serves the filtered, sorted view one page at a time. Cursors are
// bound to the view version and go stale on any mutation.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	snap := h.table.Snapshot()
	page, err := pagination.Paginate(snap.Records, snap.Version, cursor, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sortSpec := snap.Sort
	if sortSpec == nil {
		sortSpec = logtable.SortSpec{}
	}

	api.Success(w, http.StatusOK, LogPage{
		Items:   page.Items,
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
		Total:   page.Total,
		Size:    snap.Total,
		Version: page.Version,
		Filters: snap.Filters,
		Sort:    sortSpec,
	})
}

type FiltersResponse struct {
	Filters    map[logtable.Field]string `json:"filters"`
	Filterable []logtable.Field          `json:"filterable"`
	ClothTypes []string                  `json:"clothTypes"`
}

func (h *LogHandler) filtersResponse() FiltersResponse {
	return FiltersResponse{
		Filters:    h.table.Filters(),
		Filterable: logtable.FilterableFields(),
		ClothTypes: domain.KnownClothTypes,
	}
}

func (h *LogHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.filtersResponse())
}

type SetFilterRequest struct {
	Value string `json:"value"`
}

// SetFilter applies {"value": "..."} to the field in the URL. A value that
// does not parse for the field clears its criterion; the response shows the
// resulting state.
func (h *LogHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	field, ok := filterField(w, r)
	if !ok {
		return
	}

	var req SetFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.table.SetFilter(field, req.Value)
	telemetry.AddBreadcrumb(r.Context(), "logs.filter", "filter set", map[string]interface{}{
		"field": string(field),
		"value": req.Value,
	})
	api.Success(w, http.StatusOK, h.filtersResponse())
}

func (h *LogHandler) UnsetFilter(w http.ResponseWriter, r *http.Request) {
	field, ok := filterField(w, r)
	if !ok {
		return
	}

	h.table.UnsetFilter(field)
	telemetry.AddBreadcrumb(r.Context(), "logs.filter", "filter unset", map[string]interface{}{"field": string(field)})
	api.Success(w, http.StatusOK, h.filtersResponse())
}

func (h *LogHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.table.ClearFilters()
	telemetry.AddBreadcrumb(r.Context(), "logs.filter", "filters cleared", nil)
	api.Success(w, http.StatusOK, h.filtersResponse())
}

func filterField(w http.ResponseWriter, r *http.Request) (logtable.Field, bool) {
	field := logtable.Field(chi.URLParam(r, "field"))
	if !field.IsKnown() {
		api.HandleError(w, fmt.Errorf("%w: %q", domain.ErrUnknownField, field))
		return "", false
	}
	if !field.IsFilterable() {
		api.Error(w, http.StatusBadRequest, fmt.Sprintf("field %q cannot be filtered", field))
		return "", false
	}
	return field, true
}

type SortRequest struct {
	Sort []logtable.SortKey `json:"sort"`
}

// SetSort replaces the sort spec. An empty list restores collection order.
func (h *LogHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	spec := make(logtable.SortSpec, len(req.Sort))
	for i, k := range req.Sort {
		dir := logtable.Direction(strings.ToLower(string(k.Direction)))
		if dir == "" {
			dir = logtable.Asc
		}
		spec[i] = logtable.SortKey{Field: k.Field, Direction: dir}
	}

	if err := spec.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}
	if !h.table.SetSort(spec) {
		api.HandleError(w, domain.ErrInvalidSort)
		return
	}

	telemetry.AddBreadcrumb(r.Context(), "logs.sort", "sort set", map[string]interface{}{"sort": spec.String()})
	api.Success(w, http.StatusOK, map[string]interface{}{"sort": spec})
}

func (h *LogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.table.Clear()
	telemetry.AddBreadcrumb(r.Context(), "logs", "collection cleared", nil)
	api.Success(w, http.StatusOK, map[string]int{"collection_size": h.table.Len()})
}

// Refresh polls the platform now.
func (h *LogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		api.HandleError(w, errPollingDisabled)
		return
	}

	result, err := h.refresher.Refresh(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

type StatusResponse struct {
	Source         string           `json:"source"`
	CollectionSize int              `json:"collection_size"`
	Poll           *jobs.PollStatus `json:"poll,omitempty"`
	Healthy        bool             `json:"healthy"`
}

// Status reports the log source and, when polling, the last poll outcome.
func (h *LogHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Source:         h.source,
		CollectionSize: h.table.Len(),
		Healthy:        true,
	}
	if h.refresher != nil {
		status := h.refresher.Status()
		resp.Poll = &status
		resp.Healthy = status.Healthy()
	}

	api.Success(w, http.StatusOK, resp)
}
