// Package server exposes tables over HTTP and websockets: seats are
// claimed over REST and handed a seat token, then all play flows over
// one websocket per seat.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/akhtarshadab/bridge/engine"
	"github.com/akhtarshadab/bridge/internal/auth"
	"github.com/akhtarshadab/bridge/internal/cache"
	"github.com/akhtarshadab/bridge/internal/database"
	"github.com/akhtarshadab/bridge/internal/game"
	"github.com/akhtarshadab/bridge/internal/models"
)

const tokenTTL = 12 * time.Hour

// Server owns the live tables and their websocket connections.
type Server struct {
	log    *logrus.Logger
	secret []byte

	store *database.Store // nil disables persistence
	cache *cache.Cache    // nil disables snapshots

	turnDuration time.Duration

	mu     sync.Mutex
	tables map[uuid.UUID]*game.Table
	conns  map[uuid.UUID]map[engine.Seat]*websocket.Conn
}

// New creates a server. store and cache may be nil.
func New(log *logrus.Logger, secret []byte, store *database.Store, c *cache.Cache, turnDuration time.Duration) *Server {
	return &Server{
		log:          log,
		secret:       secret,
		store:        store,
		cache:        c,
		turnDuration: turnDuration,
		tables:       make(map[uuid.UUID]*game.Table),
		conns:        make(map[uuid.UUID]map[engine.Seat]*websocket.Conn),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tables", s.handleCreateTable)
	mux.HandleFunc("POST /tables/{id}/join", s.handleJoinTable)
	mux.HandleFunc("POST /tables/{id}/start", s.handleStartBoard)
	mux.HandleFunc("GET /tables/{id}/results", s.handleResults)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// createTable builds a table wired to broadcast, persistence and
// snapshot hooks.
func (s *Server) createTable() *game.Table {
	tbl := game.NewTable(s.log)
	tbl.TurnDuration = s.turnDuration
	tableID := tbl.ID

	tbl.BroadcastFn = func(ev game.Event) { s.broadcast(tableID, ev) }
	tbl.BroadcastSeatFn = func(seat engine.Seat, ev game.Event) { s.sendToSeat(tableID, seat, ev) }
	tbl.OnAction = func(rec models.ActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.store != nil {
			if err := s.store.SaveAction(ctx, rec); err != nil {
				s.log.WithError(err).Warn("persist action")
			}
		}
		if s.cache != nil {
			if err := s.cache.SaveState(ctx, tableID, tbl.Engine); err != nil {
				s.log.WithError(err).Warn("snapshot state")
			}
		}
	}
	tbl.OnBoardEnd = func(result models.BoardResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.store != nil {
			if err := s.store.SaveBoardResult(ctx, result); err != nil {
				s.log.WithError(err).Error("persist board result")
			}
		}
		if s.cache != nil {
			if err := s.cache.DeleteState(ctx, tableID); err != nil {
				s.log.WithError(err).Warn("drop state snapshot")
			}
		}
	}

	s.mu.Lock()
	s.tables[tableID] = tbl
	s.conns[tableID] = make(map[engine.Seat]*websocket.Conn)
	s.mu.Unlock()
	return tbl
}

func (s *Server) table(id uuid.UUID) (*game.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tbl, ok := s.tables[id]
	return tbl, ok
}

// ---------------------------------------------------------------------------
// REST handlers
// ---------------------------------------------------------------------------

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	tbl := s.createTable()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"tableId": tbl.ID})
}

func (s *Server) handleJoinTable(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid table id")
		return
	}
	tbl, ok := s.table(tableID)
	if !ok {
		httpError(w, http.StatusNotFound, "no such table")
		return
	}
	seat, err := engine.ParseSeat(r.URL.Query().Get("seat"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid seat")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		httpError(w, http.StatusBadRequest, "username required")
		return
	}

	player := &models.Player{ID: uuid.New(), Username: username}
	if err := tbl.SeatPlayer(player, seat); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}

	token, err := auth.NewSeatToken(s.secret, tableID, player.ID, seat, tokenTTL)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playerId": player.ID,
		"seat":     seat.String(),
		"token":    token,
	})
}

func (s *Server) handleStartBoard(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid table id")
		return
	}
	tbl, ok := s.table(tableID)
	if !ok {
		httpError(w, http.StatusNotFound, "no such table")
		return
	}

	board := tbl.NextBoardNumber()
	if err := tbl.StartBoard(board); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"board": board})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		httpError(w, http.StatusNotImplemented, "persistence disabled")
		return
	}
	tableID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid table id")
		return
	}
	results, err := s.store.RecentResults(r.Context(), tableID, 24)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// ---------------------------------------------------------------------------
// Websocket handling
// ---------------------------------------------------------------------------

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	parsed, err := auth.ParseSeatToken(s.secret, r.URL.Query().Get("token"))
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid seat token")
		return
	}
	tbl, ok := s.table(parsed.TableID)
	if !ok {
		httpError(w, http.StatusNotFound, "no such table")
		return
	}
	if seat, seated := tbl.SeatOf(parsed.PlayerID); !seated || seat != parsed.Seat {
		httpError(w, http.StatusForbidden, "token does not match a seated player")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}

	s.registerConn(parsed.TableID, parsed.Seat, conn)
	defer s.unregisterConn(parsed.TableID, parsed.Seat, conn)

	tbl.SyncSeat(parsed.Seat)
	s.readLoop(r.Context(), conn, tbl, parsed)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, tbl *game.Table, id auth.ParsedSeat) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(ctx, conn, "malformed", "message is not valid JSON")
			continue
		}

		switch msg.Type {
		case "call":
			call, err := engine.ParseCall(msg.Value)
			if err != nil {
				s.sendError(ctx, conn, "malformed", err.Error())
				continue
			}
			if err := tbl.HandleCall(id.PlayerID, call); err != nil {
				s.sendError(ctx, conn, errorCode(err), err.Error())
			}
		case "play":
			card, err := engine.ParseCard(msg.Value)
			if err != nil {
				s.sendError(ctx, conn, "malformed", err.Error())
				continue
			}
			if err := tbl.HandlePlay(id.PlayerID, card); err != nil {
				s.sendError(ctx, conn, errorCode(err), err.Error())
			}
		case "sync":
			tbl.SyncSeat(id.Seat)
		default:
			s.sendError(ctx, conn, "malformed", "unknown message type "+msg.Type)
		}
	}
}

func (s *Server) registerConn(tableID uuid.UUID, seat engine.Seat, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.conns[tableID][seat]; ok {
		prev.Close(websocket.StatusPolicyViolation, "seat reconnected elsewhere")
	}
	s.conns[tableID][seat] = conn
}

func (s *Server) unregisterConn(tableID uuid.UUID, seat engine.Seat, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[tableID][seat] == conn {
		delete(s.conns[tableID], seat)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// broadcast fans an event out to every connected seat at the table.
func (s *Server) broadcast(tableID uuid.UUID, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.WithError(err).Error("marshal event")
		return
	}
	s.mu.Lock()
	targets := make([]*websocket.Conn, 0, engine.NumSeats)
	for _, conn := range s.conns[tableID] {
		targets = append(targets, conn)
	}
	s.mu.Unlock()

	for _, conn := range targets {
		s.write(conn, data)
	}
}

// sendToSeat delivers a private event to one seat.
func (s *Server) sendToSeat(tableID uuid.UUID, seat engine.Seat, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.WithError(err).Error("marshal event")
		return
	}
	s.mu.Lock()
	conn, ok := s.conns[tableID][seat]
	s.mu.Unlock()
	if ok {
		s.write(conn, data)
	}
}

func (s *Server) write(conn *websocket.Conn, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		s.log.WithError(err).Debug("websocket write")
	}
}

func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, code, reason string) {
	data, err := json.Marshal(ErrorMessage{Type: "error", Code: code, Reason: reason})
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		s.log.WithError(err).Debug("websocket write")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func httpError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
