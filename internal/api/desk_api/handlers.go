package desk_api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/BearBump/WriteDesk/internal/pricing"
	"github.com/BearBump/WriteDesk/internal/services/orders"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

const maxJSONBody = 64 << 10

func (a *DeskAPI) createQuote(w http.ResponseWriter, r *http.Request) {
	var in pricing.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, a.orders.Quote(r.Context(), in))
}

func (a *DeskAPI) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := a.orders.SubmitOrder(r.Context(), req.toModel(clientIP(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubmitted(o))
}

func (a *DeskAPI) uploadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	// запас на заголовки multipart
	r.Body = http.MaxBytesReader(w, r.Body, a.opts.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "file is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "multipart form expected"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "form field \"file\" is required"})
		return
	}
	defer file.Close()

	contentType := hdr.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	f, err := a.orders.AttachFile(r.Context(), id, models.FileUpload{
		FileName:    hdr.Filename,
		ContentType: contentType,
		Size:        hdr.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFile(f))
}

func (a *DeskAPI) activityFeed(w http.ResponseWriter, r *http.Request) {
	items, err := a.feeds.Activity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activityFeed{Items: items})
}

func (a *DeskAPI) reviewFeed(w http.ResponseWriter, r *http.Request) {
	count, ok := queryInt(w, r, "count", 0)
	if !ok {
		return
	}
	items, err := a.feeds.Reviews(r.Context(), count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewFeed{Items: items})
}

func (a *DeskAPI) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	page, err := a.orders.ListOrders(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page))
}

func (a *DeskAPI) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	o, err := a.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdmin(o))
}

func (a *DeskAPI) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := a.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdmin(o))
}

func orderID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "order id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: name + " must be a non-negative integer"})
		return 0, false
	}
	return v, true
}

// clientIP expects middleware.RealIP to have run.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rl *orders.RateLimitError
	switch {
	case errors.As(err, &rl):
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many submissions, try again later"})
	case errors.Is(err, orders.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many submissions, try again later"})
	case errors.Is(err, orders.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, orders.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "err", err)
	}
}
