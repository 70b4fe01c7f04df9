package socket

import (
	"context"
	"fmt"
	"net/http"

	socketio "github.com/googollee/go-socket.io"

	"petmatch_server/logging"
	"petmatch_server/middleware"
	"petmatch_server/models"
)

const namespace = "/"

// EventMatchCreated is emitted to the owning party when an adopter likes one of its candidates
const EventMatchCreated = "match_created"

// PartyRoom is the room every connection of a party joins
func PartyRoom(partyID string) string {
	return "party:" + partyID
}

// Server pushes match notifications to connected parties over Socket.IO
type Server struct {
	io        *socketio.Server
	secret    string
	broadcast func(room, event string, payload interface{}) bool
}

// NewServer wires the connection handlers. Clients emit "join" with their JWT
// to subscribe to their party room.
func NewServer(jwtSecret string) *Server {
	io := socketio.NewServer(nil)
	s := &Server{io: io, secret: jwtSecret}
	s.broadcast = func(room, event string, payload interface{}) bool {
		return io.BroadcastToRoom(namespace, room, event, payload)
	}

	io.OnConnect(namespace, func(c socketio.Conn) error {
		logging.Debug().Str("socket_id", c.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent(namespace, "join", func(c socketio.Conn, token string) string {
		room, err := s.roomForToken(token)
		if err != nil {
			logging.Warn().Err(err).Str("socket_id", c.ID()).Msg("join rejected")
			return "unauthorized"
		}
		c.Join(room)
		logging.Debug().Str("socket_id", c.ID()).Str("room", room).Msg("socket joined")
		return "joined"
	})

	io.OnError(namespace, func(c socketio.Conn, err error) {
		logging.Warn().Err(err).Msg("socket error")
	})

	io.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		logging.Debug().Str("socket_id", c.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	return s
}

func (s *Server) roomForToken(token string) (string, error) {
	partyID, err := middleware.ParseToken(s.secret, token)
	if err != nil {
		return "", err
	}
	return PartyRoom(partyID), nil
}

// Serve runs the Socket.IO event loop until Close
func (s *Server) Serve() error {
	return s.io.Serve()
}

func (s *Server) Close() error {
	return s.io.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHTTP(w, r)
}

// NotifyChannelCreated tells the owning party a new channel was opened
func (s *Server) NotifyChannelCreated(ctx context.Context, ch *models.MatchChannel, candidate *models.Candidate) error {
	payload := map[string]interface{}{
		"channel_id":     ch.ID,
		"candidate_id":   candidate.ID,
		"candidate_name": candidate.Name,
		"user_id":        ch.UserID,
		"created_at":     ch.CreatedAt,
	}
	room := PartyRoom(ch.CounterpartID)
	if !s.broadcast(room, EventMatchCreated, payload) {
		return fmt.Errorf("broadcast to %s failed", room)
	}
	logging.Ctx(ctx).Debug().Str("room", room).Str("channel_id", ch.ID).Msg("match notification sent")
	return nil
}
