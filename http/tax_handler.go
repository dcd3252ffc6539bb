package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"taxbot/domain"
	"taxbot/service"
)

var log = logrus.WithField("module", "http")

const maxBodyBytes = 1 << 16

type TaxHandler struct {
	service *service.TaxService
}

func NewTaxHandler(service *service.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// Calculate answers POST /tax/calculate with the full regime comparison.
func (h *TaxHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Encode into a buffer first so a failure can still change the status.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(result); err != nil {
		log.Errorf("encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("writing response: %v", err)
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (domain.TaxInput, bool) {
	var input domain.TaxInput

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return input, false
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return input, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		log.Debugf("decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return input, false
	}
	return input, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidArgument) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("tax comparison failed: %v", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
