package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	socket "github.com/zishang520/socket.io/socket"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/validation"
)

// Event names exchanged with the browser.
const (
	EventPreviewRequest   = "previewCampaignName"
	EventPreviewResult    = "campaignNamePreview"
	EventCampaignUpdated  = "campaignUpdated"
	EventConnectConfirmed = "connectionConfirmed"
	EventError            = "error"
)

const handshakeTimeout = 5 * time.Second

// Authenticator verifies the token sent with the socket handshake.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*middleware.User, error)
}

// Previewer builds a partial campaign name.
type Previewer interface {
	Preview(input naming.CampaignNameInput) naming.PreviewResult
}

// Server wraps the Socket.IO server that streams name previews.
type Server struct {
	io        *socket.Server
	auth      Authenticator
	previewer Previewer
	logger    *slog.Logger

	connMutex   sync.RWMutex
	connections map[string]*socket.Socket
}

// NewServer creates the Socket.IO server.
func NewServer(auth Authenticator, previewer Previewer, logger *slog.Logger) (*Server, error) {
	if auth == nil || previewer == nil {
		return nil, errors.New("socketio: authenticator and previewer are required")
	}

	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(60 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetServeClient(false)
	opts.SetPath("/socket.io")

	s := &Server{
		io:          socket.NewServer(nil, opts),
		auth:        auth,
		previewer:   previewer,
		logger:      logger,
		connections: make(map[string]*socket.Socket),
	}

	s.io.Use(s.connectionMiddleware)
	s.io.On("connection", func(args ...any) {
		sock, ok := args[0].(*socket.Socket)
		if !ok {
			s.logger.Error("unexpected connection payload", slog.Any("payload", args))
			return
		}
		s.handleConnection(sock)
	})

	return s, nil
}

// GetHandler returns the HTTP handler for Socket.IO.
func (s *Server) GetHandler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close shuts down the Socket.IO server.
func (s *Server) Close() error {
	done := make(chan struct{})
	s.io.Close(func() {
		close(done)
	})

	<-done
	return nil
}

// Connections returns the number of live sockets.
func (s *Server) Connections() int {
	s.connMutex.RLock()
	defer s.connMutex.RUnlock()
	return len(s.connections)
}

// NotifyCampaign pushes a campaign status change to every socket of its owner.
func (s *Server) NotifyCampaign(userID string, payload any) {
	if err := s.io.To(userRoom(userID)).Emit(EventCampaignUpdated, payload); err != nil {
		s.logger.Debug("failed to emit campaign update", slog.String("userId", userID), slog.String("error", err.Error()))
	}
}

func (s *Server) connectionMiddleware(sock *socket.Socket, next func(*socket.ExtendedError)) {
	token := extractToken(sock)
	if token == "" {
		s.logger.Warn("socket connection rejected: missing token")
		next(socket.NewExtendedError("missing authentication token", map[string]any{"code": "MISSING_TOKEN"}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
	defer cancel()

	usr, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		s.logger.Warn("socket connection rejected", slog.String("error", err.Error()))
		next(socket.NewExtendedError("invalid token", map[string]any{"code": "INVALID_TOKEN"}))
		return
	}

	sock.SetData(usr)
	next(nil)
}

func (s *Server) handleConnection(sock *socket.Socket) {
	usr := userFromSocket(sock)
	if usr == nil {
		s.logger.Error("connection established without user context")
		sock.Disconnect(true)
		return
	}

	id := string(sock.Id())
	s.connMutex.Lock()
	s.connections[id] = sock
	s.connMutex.Unlock()

	s.logger.Info("socket connected",
		slog.String("userId", usr.ID.String()),
		slog.String("connId", id),
	)

	sock.Join(userRoom(usr.ID.String()))

	if err := sock.Emit(EventConnectConfirmed, map[string]any{
		"userId":    usr.ID.String(),
		"userName":  usr.FullName,
		"initials":  naming.ExtractInitials(usr.FullName),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn("failed to emit connection confirmation", slog.String("error", err.Error()))
	}

	sock.On(EventPreviewRequest, func(args ...any) {
		s.handlePreview(sock, usr, args)
	})

	sock.On("disconnect", func(args ...any) {
		s.connMutex.Lock()
		delete(s.connections, id)
		s.connMutex.Unlock()

		reason := "client"
		if len(args) > 0 {
			if r, ok := args[0].(string); ok {
				reason = r
			}
		}
		s.logger.Info("socket disconnected", slog.String("userId", usr.ID.String()), slog.String("reason", reason))
	})
}

func (s *Server) handlePreview(sock *socket.Socket, usr *middleware.User, args []any) {
	if len(args) == 0 {
		emitError(sock, s.logger, "INVALID_INPUT", "preview payload is required")
		return
	}

	result, err := BuildPreview(s.previewer, usr.FullName, args[0])
	if err != nil {
		emitError(sock, s.logger, "INVALID_INPUT", err.Error())
		return
	}

	metrics.RecordPreview("socket")

	if err := sock.Emit(EventPreviewResult, result); err != nil {
		s.logger.Warn("failed to emit preview", slog.String("error", err.Error()))
	}
}

// BuildPreview decodes a form payload and previews its name using the
// initials of fullName.
func BuildPreview(previewer Previewer, fullName string, payload any) (naming.PreviewResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return naming.PreviewResult{}, fmt.Errorf("preview payload is not valid JSON: %w", err)
	}

	var form validation.CampaignForm
	if err := json.Unmarshal(raw, &form); err != nil {
		return naming.PreviewResult{}, errors.New("preview payload must be an object of form fields")
	}

	return previewer.Preview(form.NameInput(naming.ExtractInitials(fullName))), nil
}

func userFromSocket(sock *socket.Socket) *middleware.User {
	if sock == nil {
		return nil
	}
	usr, _ := sock.Data().(*middleware.User)
	return usr
}

func emitError(sock *socket.Socket, logger *slog.Logger, code, message string) {
	if err := sock.Emit(EventError, map[string]any{
		"code":    code,
		"message": message,
	}); err != nil {
		logger.Debug("failed to emit error", slog.String("error", err.Error()))
	}
}

func extractToken(sock *socket.Socket) string {
	if sock == nil {
		return ""
	}

	if hs := sock.Handshake(); hs != nil {
		if authMap, ok := hs.Auth.(map[string]any); ok {
			if token, ok := authMap["token"].(string); ok && token != "" {
				return token
			}
		}
		if hs.Query != nil {
			if token, ok := hs.Query.Get("token"); ok && token != "" {
				return token
			}
		}
	}

	return ""
}

func userRoom(userID string) socket.Room {
	return socket.Room("user_" + userID)
}
