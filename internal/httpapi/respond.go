package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type detail struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

type deleted struct {
	OK bool `json:"ok"`
}

// writeJSON encodes v and, for GET requests, sets an ETag and honours
// If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"detail":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeBody(w, r, status, "application/json", body)
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)

	if r.Method == http.MethodGet && status == http.StatusOK {
		tag := etag(body)
		h.Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// writeError maps the error taxonomy onto status codes.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *menu.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, r, http.StatusUnprocessableEntity, detail{
			Detail: fmt.Sprintf("invalid %s input", validationErr.Kind),
			Errors: validationErr.Fields,
		})
	case errors.Is(err, menu.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, detail{Detail: err.Error()})
	case errors.Is(err, menu.ErrConflict):
		writeJSON(w, r, http.StatusConflict, detail{Detail: err.Error()})
	case errors.Is(err, errBadRequest):
		writeJSON(w, r, http.StatusUnprocessableEntity, detail{Detail: err.Error()})
	default:
		a.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, r, http.StatusInternalServerError, detail{Detail: "internal server error"})
	}
}

var errBadRequest = errors.New("bad request")

// pathID parses a UUID route variable.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid uuid", errBadRequest, name, raw)
	}
	return id, nil
}

func pathIDs(r *http.Request, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeBody(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", errBadRequest, err)
	}
	return nil
}
