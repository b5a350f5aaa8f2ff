package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/game"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
)

const (
	outboxSize   = 64
	writeTimeout = 10 * time.Second
)

var errSlowConsumer = errors.New("outbound queue full")

// GodInfo is the JSON representation of a god for the /api/gods endpoint.
type GodInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Element   string   `json:"element"`
	Weakness  string   `json:"weakness"`
	MaxHealth int      `json:"maxHealth"`
	Flavor    string   `json:"flavor,omitempty"`
	Art       string   `json:"art,omitempty"`
	Spells    []string `json:"spells"`
}

// TeamInfo is a preset team for the /api/teams endpoint.
type TeamInfo struct {
	Name string   `json:"name"`
	Gods []string `json:"gods"`
}

// Config configures a Server.
type Config struct {
	Coordinator *pnet.Coordinator
	Catalog     *game.Catalog
	Logger      *zap.Logger
	ReadLimit   int64
}

// Server exposes the relay over WebSocket plus a small catalog API.
type Server struct {
	coord     *pnet.Coordinator
	catalog   *game.Catalog
	logger    *zap.Logger
	readLimit int64
	mux       *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	s := &Server{
		coord:     cfg.Coordinator,
		catalog:   cfg.Catalog,
		logger:    cfg.Logger,
		readLimit: cfg.ReadLimit,
		mux:       http.NewServeMux(),
	}
	if s.catalog == nil {
		s.catalog = game.DefaultCatalog()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.readLimit <= 0 {
		s.readLimit = 1 << 20
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/gods", s.handleGods)
	s.mux.HandleFunc("GET /api/teams", s.handleTeams)
	s.mux.HandleFunc("GET /api/spells", s.handleSpells)
	s.mux.HandleFunc("GET /api/games", s.handleGames)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleGods(w http.ResponseWriter, r *http.Request) {
	gods := []GodInfo{}
	for _, g := range s.catalog.Gods() {
		gi := GodInfo{
			ID:        g.ID,
			Name:      g.Name,
			Element:   string(g.Element),
			Weakness:  string(g.Weakness),
			MaxHealth: g.MaxHealth,
			Flavor:    g.Flavor,
			Art:       g.Art,
			Spells:    []string{},
		}
		for _, sp := range s.catalog.SpellsFor(g.ID) {
			gi.Spells = append(gi.Spells, sp.ID)
		}
		gods = append(gods, gi)
	}
	writeJSON(w, gods)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams := []TeamInfo{}
	for _, t := range s.catalog.Teams() {
		teams = append(teams, TeamInfo{Name: t.Name, Gods: t.Gods})
	}
	writeJSON(w, teams)
}

// handleSpells lists spell definitions, optionally for one god (?god=id).
func (s *Server) handleSpells(w http.ResponseWriter, r *http.Request) {
	spells := s.catalog.Spells()
	if godID := r.URL.Query().Get("god"); godID != "" {
		if _, ok := s.catalog.God(godID); !ok {
			http.Error(w, "unknown god", http.StatusNotFound)
			return
		}
		spells = s.catalog.SpellsFor(godID)
	}
	if spells == nil {
		spells = []*game.SpellCard{}
	}
	writeJSON(w, spells)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.coord.Games())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// wsSender queues relay messages for the connection's writer goroutine.
// A full queue drops the connection; the client rejoins and is resent the
// cached snapshot.
type wsSender struct {
	out      chan pnet.ServerMessage
	overflow func()
}

func (s *wsSender) Send(msg pnet.ServerMessage) error {
	select {
	case s.out <- msg:
		return nil
	default:
		if s.overflow != nil {
			s.overflow()
		}
		return errSlowConsumer
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()
	wsConn.SetReadLimit(s.readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sender := &wsSender{out: make(chan pnet.ServerMessage, outboxSize)}
	conn := s.coord.Connect(sender)
	logger := s.logger.With(zap.String("conn", conn.ID), zap.String("remote", r.RemoteAddr))
	var once sync.Once
	sender.overflow = func() {
		once.Do(func() { logger.Warn("outbound queue full, closing connection") })
		cancel()
	}
	logger.Debug("websocket connected")

	// Relay → WebSocket
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-sender.out:
				wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
				err := wsjson.Write(wctx, wsConn, msg)
				wcancel()
				if err != nil {
					logger.Debug("websocket write", zap.Error(err))
					cancel()
					return
				}
			}
		}
	}()

	// WebSocket → relay
	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				logger.Debug("websocket read", zap.Error(err))
			}
			break
		}
		var msg pnet.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = sender.Send(pnet.ServerMessage{Type: pnet.MsgError, Message: "Malformed message"})
			continue
		}
		s.coord.Handle(conn, msg)
	}

	s.coord.Disconnect(conn)
	cancel()
	<-done
	wsConn.Close(websocket.StatusNormalClosure, "")
	logger.Debug("websocket closed")
}

// ListenAndServe serves HTTP on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
