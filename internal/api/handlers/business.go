package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/tryonadmin/internal/api"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

type BusinessService interface {
	List(ctx context.Context) ([]domain.Business, error)
	ListCachedOrFresh(ctx context.Context) ([]domain.Business, error)
	Create(ctx context.Context, input domain.CreateBusinessInput) (*domain.Business, error)
}

type BusinessHandler struct {
	service BusinessService
}

func NewBusinessHandler(service BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// List serves the business directory. API keys are masked unless
// ?reveal=true; ?refresh=true bypasses the cache.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	refresh := queryBool(r, "refresh")
	reveal := queryBool(r, "reveal")

	var (
		businesses []domain.Business
		err        error
	)
	if refresh {
		businesses, err = h.service.List(r.Context())
	} else {
		businesses, err = h.service.ListCachedOrFresh(r.Context())
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]domain.Business, len(businesses))
	for i, b := range businesses {
		if reveal {
			out[i] = b
		} else {
			out[i] = b.Masked()
		}
	}

	api.Success(w, http.StatusOK, out)
}

// Create registers a business. The response is the only place the new API
// key is shown in full.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBusinessInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	business, err := h.service.Create(r.Context(), req)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, business)
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
