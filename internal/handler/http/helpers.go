package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/middleware"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

const maxMultipartMemory = 10 << 20

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	return middleware.UserID(r.Context())
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeRequest reads dst from a JSON body, or from the "data" field of a
// multipart form. It writes the error response itself and reports whether
// decoding succeeded.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			slog.Error("request decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return false
		}
		return true
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// formUpload returns the named file part, or nil when it is absent. The
// caller closes the returned file.
func formUpload(r *http.Request, field string) *catalog.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return &catalog.Upload{File: file, Header: header}
}

func closeUploads(uploads ...*catalog.Upload) {
	for _, u := range uploads {
		if u != nil && u.File != nil {
			u.File.Close()
		}
	}
}
