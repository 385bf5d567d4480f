package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	app "line-detector/internal/application"
	"line-detector/internal/domain/entity"
	"line-detector/internal/infrastructure/storage"
)

const (
	imageField      = "image"
	multipartMemory = 32 << 20
)

// Handler HTTP-обработчики загрузки и выдачи артефактов
type Handler struct {
	detection      *app.DetectionService
	maxUploadBytes int64
	log            zerolog.Logger
}

// detectResponse тело ответа: результат детекции плюс идентификатор запроса
type detectResponse struct {
	RequestID string `json:"request_id"`
	*entity.DetectionResult
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHandler создаёт обработчики HTTP API
func NewHandler(detection *app.DetectionService, maxUploadBytes int64, logger zerolog.Logger) *Handler {
	return &Handler{
		detection:      detection,
		maxUploadBytes: maxUploadBytes,
		log:            logger.With().Str("component", "http").Logger(),
	}
}

// Routes возвращает маршрутизатор со всеми эндпоинтами
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /detect_blue_line", h.detect)
	mux.HandleFunc("GET /artifacts/{requestID}/{name}", h.artifact)
	mux.HandleFunc("GET /healthz", h.health)
	return h.logRequests(mux)
}

func (h *Handler) detect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "image is too large"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: app.ErrMissingImage.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		// часть без имени файла multipart отдаёт как обычное поле
		if _, ok := r.MultipartForm.Value[imageField]; ok {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: app.ErrEmptyFilename.Error()})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: app.ErrMissingImage.Error()})
		return
	}
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: app.ErrMissingImage.Error(), Error: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "server error", Error: err.Error()})
		return
	}

	out, err := h.detection.Detect(r.Context(), header.Filename, data)
	switch {
	case errors.Is(err, app.ErrMissingImage), errors.Is(err, app.ErrEmptyFilename):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	case err != nil:
		h.log.Error().Err(err).Msg("detection failed")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "server error", Error: err.Error()})
		return
	}

	h.writeJSON(w, StatusCode(out.Result.Status), detectResponse{RequestID: out.RequestID, DetectionResult: out.Result})
}

// StatusCode сопоставляет статус детекции с HTTP-кодом: штатные исходы 200, сбои 500.
func StatusCode(status entity.DetectionStatus) int {
	if status.IsSoft() {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

func (h *Handler) artifact(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("requestID") + "/" + r.PathValue("name")
	data, err := h.detection.Artifact(r.Context(), ref)
	switch {
	case errors.Is(err, storage.ErrArtifactNotFound), errors.Is(err, storage.ErrInvalidRef):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Message: "artifact not found"})
		return
	case err != nil:
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "server error", Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn().Err(err).Str("ref", ref).Msg("failed to write artifact")
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn().Err(err).Msg("failed to encode response")
	}
}

// statusRecorder запоминает код ответа для журнала
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}
