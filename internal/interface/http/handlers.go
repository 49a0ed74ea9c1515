package httpservice

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/application"
	"github.com/blocknames/registrar/internal/core/domain"
)

type handler struct {
	svc  application.Service
	kill func()
}

func newRouter(svc application.Service, kill func()) http.Handler {
	h := &handler{svc, kill}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Get("/v1/ping", h.ping)
	r.Post("/v1/kill", h.killHandler)
	r.Post("/v1/update", h.update)
	r.Post("/v1/transfer", h.transfer)
	r.Get("/v1/queue/{queue}", h.listQueue)
	return r
}

func (h *handler) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *handler) killHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	h.kill()
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, h.svc.SubmitUpdate(r.Context(), req))
}

func (h *handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req application.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeResult(w, h.svc.SubmitTransfer(r.Context(), req))
}

func (h *handler) listQueue(w http.ResponseWriter, r *http.Request) {
	queue := domain.Queue(chi.URLParam(r, "queue"))
	records, err := h.svc.ListQueue(r.Context(), queue)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func writeResult(w http.ResponseWriter, res application.SubmitResult) {
	if res.Accepted {
		writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": res.TxHash})
		return
	}
	body := map[string]string{"error": string(res.Code)}
	if res.Err != nil {
		body["detail"] = res.Err.Error()
	}
	writeJSON(w, statusForCode(res.Code), body)
}

func statusForCode(code application.RejectCode) int {
	switch code {
	case application.RejectAlreadyQueued:
		return http.StatusConflict
	case application.RejectNotRegistered:
		return http.StatusNotFound
	case application.RejectNotOwner:
		return http.StatusForbidden
	case application.RejectInvalidRequest:
		return http.StatusBadRequest
	case application.RejectRecipientNotReady,
		application.RejectPaymentAddressUnusable,
		application.RejectPaymentAddressUnderfunded,
		application.RejectPaymentKeyUnavailable:
		return http.StatusUnprocessableEntity
	case application.RejectQueueUnavailable:
		return http.StatusServiceUnavailable
	case application.RejectRemoteTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nolint:all
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		log.WithFields(log.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("handling request")
		next.ServeHTTP(w, r)
	})
}
