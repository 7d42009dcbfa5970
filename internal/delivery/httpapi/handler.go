package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/service"
)

// RegistryService is the registry surface the API exposes.
type RegistryService interface {
	AddQuestion(ctx context.Context, caller entities.Identity, prompt, answer string) error
	GrantEducator(ctx context.Context, caller, target entities.Identity) error
	Get(ctx context.Context, index int) (entities.Question, error)
	CheckAnswer(ctx context.Context, index int, attempt string) (bool, error)
	Count(ctx context.Context) (int, error)
}

const maxBodyBytes = 64 << 10

type addQuestionRequest struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

type checkAnswerRequest struct {
	Attempt string `json:"attempt"`
}

type grantEducatorRequest struct {
	Identity string `json:"identity"`
}

type questionResponse struct {
	Index        int    `json:"index"`
	Prompt       string `json:"prompt"`
	AnswerDigest string `json:"answer_digest"`
}

type checkAnswerResponse struct {
	Correct bool `json:"correct"`
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the registry over JSON.
type Handler struct {
	registry RegistryService
	auth     *Authenticator
	logger   *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(registry RegistryService, auth *Authenticator, logger *zap.Logger) *Handler {
	return &Handler{
		registry: registry,
		auth:     auth,
		logger:   logger,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /questions", h.addQuestion)
	mux.HandleFunc("GET /questions/count", h.count)
	mux.HandleFunc("GET /questions/{index}", h.getQuestion)
	mux.HandleFunc("POST /questions/{index}/check", h.checkAnswer)
	mux.HandleFunc("POST /educators", h.grantEducator)
	return mux
}

// NewServer wraps the routes in an http.Server listening on addr.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req addQuestionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Prompt == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "prompt and answer are required")
		return
	}

	if err := h.registry.AddQuestion(r.Context(), caller, req.Prompt, req.Answer); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) grantEducator(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req grantEducatorRequest
	if !decode(w, r, &req) {
		return
	}
	target, ok := entities.ParseIdentity(req.Identity)
	if !ok {
		writeError(w, http.StatusBadRequest, "identity is required")
		return
	}

	if err := h.registry.GrantEducator(r.Context(), caller, target); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	q, err := h.registry.Get(r.Context(), index)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{
		Index:        index,
		Prompt:       q.Prompt,
		AnswerDigest: q.AnswerDigest.String(),
	})
}

func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req checkAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	correct, err := h.registry.CheckAnswer(r.Context(), index, req.Attempt)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkAnswerResponse{Correct: correct})
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	n, err := h.registry.Count(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (entities.Identity, bool) {
	id, err := h.auth.Identity(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return id, true
}

// writeRegistryError replies with the bare error kind, or 500 for anything else.
func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWrongAnswer):
		writeError(w, http.StatusUnprocessableEntity, service.ErrWrongAnswer.Error())
	case errors.Is(err, service.ErrQuestionDoesntExist):
		writeError(w, http.StatusNotFound, service.ErrQuestionDoesntExist.Error())
	case errors.Is(err, service.ErrInvalidPowerLevel):
		writeError(w, http.StatusForbidden, service.ErrInvalidPowerLevel.Error())
	case errors.Is(err, service.ErrInvalidCaller):
		writeError(w, http.StatusForbidden, service.ErrInvalidCaller.Error())
	default:
		h.logger.Error("registry call failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
