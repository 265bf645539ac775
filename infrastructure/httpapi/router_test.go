package httpapi

import (
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/mocks"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	server   *httptest.Server
	chat     *mocks.MockIChatService
	registry *mocks.MockIRegistry
}

func newRouterFixture(t *testing.T) *routerFixture {
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		chat:     mocks.NewMockIChatService(ctrl),
		registry: mocks.NewMockIRegistry(ctrl),
	}
	live := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"}))
	f.server = httptest.NewServer(NewRouter(slog.Default(), live, f.chat, f.registry, gatherer))
	t.Cleanup(f.server.Close)
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	request, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()
	data, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return response.StatusCode, string(data)
}

func TestRouter_Operational_Endpoints(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	f.registry.EXPECT().Count().Return(3)

	status, body := f.do(t, http.MethodGet, "/healthz", "")
	req.Equal(http.StatusOK, status)
	req.Equal("ok", body)

	status, body = f.do(t, http.MethodGet, "/debug/listeners", "")
	req.Equal(http.StatusOK, status)
	req.JSONEq(`{"active":3}`, body)

	status, body = f.do(t, http.MethodGet, "/metrics", "")
	req.Equal(http.StatusOK, status)
	req.Contains(body, "probe_total")

	status, _ = f.do(t, http.MethodGet, "/live", "")
	req.Equal(http.StatusTeapot, status)
}

func TestRouter_Internal_Commands(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)

	f.chat.EXPECT().
		SaveUser(gomock.Any(), domain.Identity{ID: "alice", Name: "Alice"}).
		Return(nil)
	status, _ := f.do(t, http.MethodPut, "/internal/users/alice", `{"name":"Alice"}`)
	req.Equal(http.StatusNoContent, status)

	f.chat.EXPECT().
		AddMember(gomock.Any(), domain.ChannelID("general"), domain.UserID("bob"), domain.ReadWrite).
		Return(nil)
	status, _ = f.do(t, http.MethodPut, "/internal/channels/general/members/bob", `{"role":"READ_WRITE"}`)
	req.Equal(http.StatusNoContent, status)

	f.chat.EXPECT().
		RemoveMember(gomock.Any(), domain.ChannelID("general"), domain.UserID("bob")).
		Return(fmt.Errorf("remove: %w", errors.ErrNotMember))
	status, _ = f.do(t, http.MethodDelete, "/internal/channels/general/members/bob", "")
	req.Equal(http.StatusForbidden, status)

	message := domain.Message{ID: uuid.New(), ChannelID: "general", Content: "hi"}
	f.chat.EXPECT().
		PostMessage(gomock.Any(), domain.ChannelID("general"), domain.UserID("alice"), "hi").
		Return(message, nil)
	status, body := f.do(t, http.MethodPost, "/internal/channels/general/messages", `{"author_id":"alice","content":"hi"}`)
	req.Equal(http.StatusCreated, status)
	req.Contains(body, message.ID.String())

	invitationID := uuid.New()
	f.chat.EXPECT().
		AcceptInvitation(gomock.Any(), invitationID, domain.UserID("bob")).
		Return(domain.Invitation{}, errors.ErrUnknownInvitation)
	status, _ = f.do(t, http.MethodPost, "/internal/invitations/"+invitationID.String()+"/accept", `{"receiver_id":"bob"}`)
	req.Equal(http.StatusNotFound, status)
}

func TestRouter_Internal_Rejects_Bad_Requests(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)

	testCases := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/internal/users/alice", `{}`},
		{http.MethodPut, "/internal/channels/general/members/bob", `{"role":"OWNER"}`},
		{http.MethodPost, "/internal/channels/general/messages", `not json`},
		{http.MethodPost, "/internal/channels/general/invitations", `{"sender_id":"alice"}`},
		{http.MethodPost, "/internal/invitations/not-a-uuid/accept", `{"receiver_id":"bob"}`},
	}
	for _, tc := range testCases {
		status, _ := f.do(t, tc.method, tc.path, tc.body)
		req.Equal(http.StatusBadRequest, status, tc.path)
	}
}
