package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/service"
)

type handler struct {
	svc *service.Service
}

// customerPods groups the environments of one customer, already in
// lifecycle order.
type customerPods struct {
	Customer     string   `json:"customer"`
	Environments []string `json:"environments"`
}

func (h *handler) listPods(w http.ResponseWriter, r *http.Request) {
	pods, err := h.svc.ListPods(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var grouped []customerPods
	for _, id := range pods {
		if n := len(grouped); n > 0 && grouped[n-1].Customer == id.Customer {
			grouped[n-1].Environments = append(grouped[n-1].Environments, id.Environment)
			continue
		}
		grouped = append(grouped, customerPods{Customer: id.Customer, Environments: []string{id.Environment}})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pods":  grouped,
		"count": len(pods),
	})
}

func (h *handler) getPod(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	spec, raw, err := h.svc.GetPod(r.Context(), vars["customer"], vars["environment"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"customer":      spec.Customer,
		"environment":   spec.Environment,
		"instance_name": spec.InstanceName,
		"instance_type": spec.InstanceType,
		"waf_enabled":   spec.WAFEnabled,
		"document":      raw,
	})
}

func (h *handler) deploy(w http.ResponseWriter, r *http.Request) {
	var req model.DeployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewError(core.KindValidation, "deploy", model.PodIdentity{},
			fmt.Sprintf("invalid request body: %v", err), err))
		return
	}

	result, err := h.svc.Deploy(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"evicted": h.svc.RefreshCache(),
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	rl, err := h.svc.Health(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"rate_limit": rl,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusOf maps an error kind to its HTTP status code.
func statusOf(kind core.Kind) int {
	switch kind {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindMalformed:
		return http.StatusUnprocessableEntity
	case core.KindConflict:
		return http.StatusConflict
	case core.KindRemoteUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	ce := core.Classify(err)

	if ce.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(ce.RetryAfter.Seconds())+1))
	}

	body := map[string]any{
		"error": ce.Detail,
		"kind":  string(ce.Kind),
	}
	if len(ce.Suggestions) > 0 {
		body["details"] = map[string]any{"suggestions": ce.Suggestions}
	}
	writeJSON(w, statusOf(ce.Kind), body)
}
