package resp

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSONResponse - пишет JSON ответ с указанным статусом
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}
