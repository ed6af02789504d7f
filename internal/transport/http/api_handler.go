package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"family-hub-service/internal/app"
	"family-hub-service/internal/domain"
	"family-hub-service/internal/render"
)

// APIHandler exposes the profile and messaging use cases as JSON plus the
// adult summary view as server-rendered HTML.
type APIHandler struct {
	profiles *app.ProfileService
}

func NewAPIHandler(profiles *app.ProfileService) *APIHandler {
	return &APIHandler{profiles: profiles}
}

// NewRouter assembles the full HTTP surface: REST API, summary view,
// trivia websocket, health check.
func NewRouter(profiles *app.ProfileService, trivia *app.TriviaService) http.Handler {
	api := NewAPIHandler(profiles)
	ws := NewWSHandler(trivia)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/children", api.listChildren)
		r.Post("/children", api.createChild)
		r.Get("/children/{id}", api.getChild)
		r.Put("/children/{id}/profile", api.saveProfile)
		r.Get("/children/{id}/messages", api.listMessages)
		r.Post("/children/{id}/messages", api.sendMessage)
		r.Get("/children/{id}/wardrobe", api.wardrobe)
		r.Get("/summary", api.summary)
	})

	r.Get("/ws/trivia", ws.ServeWS)

	return r
}

type createChildRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Color string `json:"color"`
}

type sendMessageRequest struct {
	From string `json:"from"`
	Text string `json:"text"`
}

func (h *APIHandler) listChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.profiles.ListChildren(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if children == nil {
		children = []domain.ChildRecord{}
	}
	respondJSON(w, http.StatusOK, children)
}

func (h *APIHandler) createChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	child, err := h.profiles.CreateChild(r.Context(), req.Name, req.Age, req.Color)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

func (h *APIHandler) getChild(w http.ResponseWriter, r *http.Request) {
	child, err := h.profiles.GetChild(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

func (h *APIHandler) saveProfile(w http.ResponseWriter, r *http.Request) {
	var attrs map[string]domain.AttributeValue
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		http.Error(w, "invalid profile body", http.StatusBadRequest)
		return
	}
	child, err := h.profiles.SaveProfile(r.Context(), chi.URLParam(r, "id"), attrs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// listMessages returns a thread as JSON, or as the rendered thread
// fragment when the client asks for text/html.
func (h *APIHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.profiles.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if wantsHTML(r) {
		html, err := render.MessageThread(messages)
		if err != nil {
			respondError(w, err)
			return
		}
		respondHTML(w, html)
		return
	}
	if messages == nil {
		messages = []domain.MessageRecord{}
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *APIHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid message body", http.StatusBadRequest)
		return
	}
	msg, err := h.profiles.SendMessage(r.Context(), chi.URLParam(r, "id"), req.From, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *APIHandler) wardrobe(w http.ResponseWriter, r *http.Request) {
	child, err := h.profiles.GetChild(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app.AnalyzeWardrobe(child))
}

func (h *APIHandler) summary(w http.ResponseWriter, r *http.Request) {
	children, err := h.profiles.CachedChildren(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	html, err := render.Summary(children)
	if err != nil {
		respondError(w, err)
		return
	}
	respondHTML(w, html)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func respondHTML(w http.ResponseWriter, html template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrChildNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidChild), errors.Is(err, domain.ErrEmptyMessage):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
