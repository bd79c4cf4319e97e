package httpapi

import (
	"net/http"
	"time"

	"github.com/talentscout/screener/internal/screening"
)

type candidateRow struct {
	ID        int64             `json:"id"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

// handleListCandidates returns every stored candidate snapshot with
// sensitive fields decrypted for operator review, oldest first.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	rows := make([]candidateRow, 0, len(stored))
	for _, rec := range stored {
		rows = append(rows, candidateRow{
			ID:        rec.ID,
			Data:      s.controller.DecryptForDisplay(rec.Data),
			CreatedAt: rec.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"candidates": rows})
}

func (s *Server) handleSentimentLog(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	log := sess.SentimentLog()
	if log == nil {
		log = []screening.SentimentEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"sentiment":  log,
	})
}
