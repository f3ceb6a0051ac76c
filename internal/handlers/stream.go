package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const streamHeartbeat = 15 * time.Second

// Stream pushes the cache state of one spendings page as server-sent events
// for as long as the client stays connected. Only the newest state is kept
// when the client reads slower than updates arrive.
func (h *spendingHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	page, err := pageFromQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	updates := make(chan dto.SpendingList, 1)
	sub, err := h.SpendingSvc.Watch(r.Context(), page, func(list dto.SpendingList) {
		select {
		case <-updates:
		default:
		}
		updates <- list
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Warn("streaming unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case list := <-updates:
			data, err := json.Marshal(list)
			if err != nil {
				log.Error("failed to encode stream event", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: spendings\ndata: %s\n\n", data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
