package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexusdash/pkg/nexusdash"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.core.Portfolio())
}

func (h *handler) getStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := make([]map[string]string, 0, len(nexusdash.StrategyMethods))
	for _, method := range nexusdash.StrategyMethods {
		strategies = append(strategies, map[string]string{
			"name":        method,
			"description": nexusdash.StrategyDescriptions[method],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"strategies":  strategies,
		"risk_levels": nexusdash.RiskLevels,
	})
}

func (h *handler) createChatSession(w http.ResponseWriter, r *http.Request) {
	session := h.core.CreateChatSession()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID(),
		"messages":   session.Messages(),
	})
}

func (h *handler) getChatMessages(w http.ResponseWriter, r *http.Request) {
	session, err := h.core.ChatSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    session.State(),
		"messages": session.Messages(),
	})
}

func (h *handler) postChatMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.core.ChatSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}

	var payload chatMessagePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := session.Submit(r.Context(), payload.Text)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reply":    reply,
		"messages": session.Messages(),
	})
}

func (h *handler) streamChatMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.core.ChatSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}

	var payload chatMessagePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	initSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	reply, err := session.SubmitStream(r.Context(), payload.Text, func(delta string) error {
		return writeSSEEvent(w, flusher, "delta", map[string]string{"text": delta})
	})
	if err != nil {
		h.logger.Error("chat stream failed", "session_id", session.ID(), "err", err)
		_ = writeSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		_ = writeSSEEvent(w, flusher, "done", map[string]any{"ok": false})
		return
	}

	_ = writeSSEEvent(w, flusher, "result", reply)
	_ = writeSSEEvent(w, flusher, "done", map[string]any{"ok": true})
}

func (h *handler) closeChatSession(w http.ResponseWriter, r *http.Request) {
	if err := h.core.CloseChatSession(chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (h *handler) createOptimizerSession(w http.ResponseWriter, r *http.Request) {
	session := h.core.CreateOptimizerSession()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID(),
		"state":      session.State(),
	})
}

func (h *handler) getOptimizerSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.core.OptimizerSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *handler) runOptimization(w http.ResponseWriter, r *http.Request) {
	session, err := h.core.OptimizerSession(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}

	var payload optimizePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := session.Run(r.Context(), nexusdash.StrategyRequest{
		Amount:       payload.Amount,
		RiskLevel:    payload.RiskLevel,
		StrategyType: payload.StrategyType,
	})
	if err != nil {
		h.logger.Error("optimization failed",
			"session_id", session.ID(),
			"strategy_type", payload.StrategyType,
			"err", err,
		)
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) closeOptimizerSession(w http.ResponseWriter, r *http.Request) {
	if err := h.core.CloseOptimizerSession(chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Helpers.

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func initSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + event + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
