package httpapi

import (
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/services"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

type memberRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=READ_ONLY READ_WRITE ADMIN"`
}

type messageRequest struct {
	AuthorID domain.UserID `json:"author_id" validate:"required"`
	Content  string        `json:"content" validate:"required"`
}

type invitationRequest struct {
	SenderID   domain.UserID `json:"sender_id" validate:"required"`
	ReceiverID domain.UserID `json:"receiver_id" validate:"required"`
}

type acceptRequest struct {
	ReceiverID domain.UserID `json:"receiver_id" validate:"required"`
}

// chatHandler is the internal producer surface used by the co-located CRUD
// layer: every call commits a change and triggers the matching live event.
type chatHandler struct {
	log      *slog.Logger
	service  services.IChatService
	validate *validator.Validate
}

func (h *chatHandler) routes(r chi.Router) {
	r.Put("/users/{userID}", h.saveUser)
	r.Put("/channels/{channelID}", h.saveChannel)
	r.Put("/channels/{channelID}/members/{userID}", h.addMember)
	r.Delete("/channels/{channelID}/members/{userID}", h.removeMember)
	r.Post("/channels/{channelID}/messages", h.postMessage)
	r.Post("/channels/{channelID}/invitations", h.invite)
	r.Post("/invitations/{invitationID}/accept", h.acceptInvitation)
}

func (h *chatHandler) saveUser(w http.ResponseWriter, r *http.Request) {
	var body nameRequest
	if !h.decode(w, r, &body) {
		return
	}
	identity := domain.Identity{ID: domain.UserID(chi.URLParam(r, "userID")), Name: body.Name}
	h.respond(w, http.StatusNoContent, nil, h.service.SaveUser(r.Context(), identity))
}

func (h *chatHandler) saveChannel(w http.ResponseWriter, r *http.Request) {
	var body nameRequest
	if !h.decode(w, r, &body) {
		return
	}
	channel := domain.Channel{ID: domain.ChannelID(chi.URLParam(r, "channelID")), Name: body.Name}
	h.respond(w, http.StatusNoContent, nil, h.service.SaveChannel(r.Context(), channel))
}

func (h *chatHandler) addMember(w http.ResponseWriter, r *http.Request) {
	var body memberRequest
	if !h.decode(w, r, &body) {
		return
	}
	err := h.service.AddMember(r.Context(),
		domain.ChannelID(chi.URLParam(r, "channelID")),
		domain.UserID(chi.URLParam(r, "userID")),
		body.Role)
	h.respond(w, http.StatusNoContent, nil, err)
}

func (h *chatHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveMember(r.Context(),
		domain.ChannelID(chi.URLParam(r, "channelID")),
		domain.UserID(chi.URLParam(r, "userID")))
	h.respond(w, http.StatusNoContent, nil, err)
}

func (h *chatHandler) postMessage(w http.ResponseWriter, r *http.Request) {
	var body messageRequest
	if !h.decode(w, r, &body) {
		return
	}
	message, err := h.service.PostMessage(r.Context(),
		domain.ChannelID(chi.URLParam(r, "channelID")), body.AuthorID, body.Content)
	h.respond(w, http.StatusCreated, message, err)
}

func (h *chatHandler) invite(w http.ResponseWriter, r *http.Request) {
	var body invitationRequest
	if !h.decode(w, r, &body) {
		return
	}
	invitation, err := h.service.Invite(r.Context(),
		domain.ChannelID(chi.URLParam(r, "channelID")), body.SenderID, body.ReceiverID)
	h.respond(w, http.StatusCreated, invitation, err)
}

func (h *chatHandler) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID, err := uuid.Parse(chi.URLParam(r, "invitationID"))
	if err != nil {
		http.Error(w, "invalid invitation id", http.StatusBadRequest)
		return
	}
	var body acceptRequest
	if !h.decode(w, r, &body) {
		return
	}
	invitation, err := h.service.AcceptInvitation(r.Context(), invitationID, body.ReceiverID)
	h.respond(w, http.StatusOK, invitation, err)
}

func (h *chatHandler) decode(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *chatHandler) respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		code := errors.MapToHTTPStatus(err)
		if code == http.StatusInternalServerError {
			h.log.Error("Chat command failed", "error", err)
		}
		http.Error(w, err.Error(), code)
		return
	}
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("encode response failed", "error", err)
	}
}
