package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/item-inventory/internal/core/domain"
	"github.com/rl1809/item-inventory/internal/core/service"
)

const maxRequestBodyBytes = 1 << 20

var errQuantityNotInteger = errors.New("quantity must be an integer")

type HTTPHandler struct {
	itemService *service.ItemService
	validate    *validator.Validate
	tracer      trace.Tracer
	log         *zap.Logger
}

// Rarity is any so that both an ordinal (JSON number) and a label pass
// through; it is checked by rarityInput since ordinal 0 is a zero value.
type CreateItemHTTPRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Type     string `json:"type" validate:"required,max=255"`
	Rarity   any    `json:"rarity"`
	Quantity *Quantity `json:"quantity" validate:"required,min=0,max=4294967295"`
}

type UpdateQuantityHTTPRequest struct {
	Quantity *Quantity `json:"quantity" validate:"required,min=0,max=4294967295"`
}

// Quantity decodes from a JSON integer or an integer string ("5").
type Quantity int64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return errQuantityNotInteger
	}
	*q = Quantity(n)
	return nil
}

type ErrorHTTPResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewHTTPHandler(itemService *service.ItemService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		itemService: itemService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		tracer:      otel.Tracer("item-http"),
		log:         log.Named("http"),
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", h.HealthCheck)
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/quantity", h.UpdateQuantity)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListItems")
	defer span.End()

	items, err := h.itemService.List(ctx)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateItem")
	defer span.End()

	var req CreateItemHTTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rarity, ok := rarityInput(req.Rarity)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{
			Error:  "validation failed",
			Fields: map[string]string{"rarity": "must be an ordinal 0-4 or a rarity label"},
		})
		return
	}

	item, err := h.itemService.Add(ctx, service.AddItemInput{
		Name:     req.Name,
		Type:     req.Type,
		Rarity:   rarity,
		Quantity: int(*req.Quantity),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetItem")
	defer span.End()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateItemQuantity")
	defer span.End()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityHTTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.itemService.UpdateQuantity(ctx, id, int(*req.Quantity))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteItem")
	defer span.End()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.itemService.Remove(ctx, id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate writes 400 for malformed JSON, 413 for oversized bodies
// and 422 for type or rule violations.
func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		var (
			typeErr *json.UnmarshalTypeError
			sizeErr *http.MaxBytesError
		)
		if errors.As(err, &sizeErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorHTTPResponse{Error: "request body too large"})
			return false
		}
		if errors.Is(err, errQuantityNotInteger) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{
				Error:  "validation failed",
				Fields: map[string]string{"quantity": "must be an integer"},
			})
			return false
		}
		if errors.As(err, &typeErr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{
				Error:  "validation failed",
				Fields: map[string]string{typeErr.Field: "must be of type " + typeErr.Type.String()},
			})
			return false
		}
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{Error: "request body required"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return false
	}

	if err := h.validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = fe.Tag()
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{Error: "validation failed", Fields: fields})
		return false
	}
	return true
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidValue):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorHTTPResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorHTTPResponse{Error: "item not found"})
	default:
		h.log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorHTTPResponse{Error: "internal error"})
	}
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid item id"})
		return 0, false
	}
	return id, true
}

// rarityInput turns the decoded JSON value into the text form the service parses.
func rarityInput(v any) (string, bool) {
	switch r := v.(type) {
	case string:
		return r, true
	case float64:
		if r != float64(int64(r)) {
			return "", false
		}
		return strconv.FormatInt(int64(r), 10), true
	default:
		return "", false
	}
}

func jsonFieldName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Type":
		return "type"
	case "Rarity":
		return "rarity"
	case "Quantity":
		return "quantity"
	default:
		return field
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
