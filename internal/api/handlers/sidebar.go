package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/tryonadmin/internal/api"
	"github.com/cloo-solutions/tryonadmin/internal/sidebar"
)

type SidebarHandler struct {
	state *sidebar.State
}

func NewSidebarHandler(state *sidebar.State) *SidebarHandler {
	return &SidebarHandler{state: state}
}

func (h *SidebarHandler) Get(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.state.Snapshot())
}

func (h *SidebarHandler) ToggleOpen(w http.ResponseWriter, r *http.Request) {
	h.state.ToggleOpen()
	api.Success(w, http.StatusOK, h.state.Snapshot())
}

func (h *SidebarHandler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	h.state.ToggleCollapse()
	api.Success(w, http.StatusOK, h.state.Snapshot())
}

type ViewportRequest struct {
	Width *int `json:"width"`
}

func (h *SidebarHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Width == nil || *req.Width < 0 {
		api.Error(w, http.StatusBadRequest, "width must be a non-negative integer")
		return
	}

	h.state.ObserveViewport(*req.Width)
	api.Success(w, http.StatusOK, h.state.Snapshot())
}
