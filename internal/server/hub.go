// Package server is the websocket gateway: it translates JSON frames
// into engine actions and pushes per-player state views back out. All
// game rules live in the engine; this layer only routes, serializes and
// reports validation failures to the offending client.
package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ggltcg/ggltcg-server-go/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect cross-origin during development.
		return true
	},
}

// Hub tracks connected clients and routes their messages to the game
// manager. Client registration runs on a single goroutine.
type Hub struct {
	logger  *zap.Logger
	manager *game.Manager

	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub over a game manager.
func NewHub(logger *zap.Logger, manager *game.Manager) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		manager:    manager,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes client registration until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("client unregistered", zap.String("player_id", client.playerID))
			}
			h.mu.Unlock()
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleMessage(client *Client, msg ClientMessage) {
	switch msg.Type {
	case "create_game":
		h.createGame(client, msg)
	case "join_game":
		h.joinGame(client, msg)
	case "play_card":
		h.runAction(client, func(e *game.GameEngine) (*game.ActionResult, error) {
			return e.PlayCard(client.playerID, msg.CardID, msg.TargetIDs, msg.AltCostCardID)
		})
	case "tussle":
		h.runAction(client, func(e *game.GameEngine) (*game.ActionResult, error) {
			if _, err := e.InitiateTussle(msg.CardID, msg.DefenderID, client.playerID); err != nil {
				return nil, err
			}
			st := e.State()
			result := &game.ActionResult{Victory: st.Winner}
			if n := len(st.Log); n > 0 {
				result.LogLine = st.Log[n-1]
			}
			return result, nil
		})
	case "direct_attack":
		h.runAction(client, func(e *game.GameEngine) (*game.ActionResult, error) {
			return e.DirectAttack(msg.CardID, client.playerID, msg.HandCardID)
		})
	case "activate":
		h.runAction(client, func(e *game.GameEngine) (*game.ActionResult, error) {
			return e.ActivateAbility(client.playerID, msg.CardID, msg.EffectID, msg.TargetIDs)
		})
	case "end_turn":
		h.runAction(client, func(e *game.GameEngine) (*game.ActionResult, error) {
			return e.EndTurn(client.playerID)
		})
	case "valid_actions":
		h.sendValidActions(client)
	default:
		client.sendError("unknown message type " + msg.Type)
	}
}

func (h *Hub) createGame(client *Client, msg ClientMessage) {
	specs := [2]game.PlayerSpec{
		{ID: msg.Players[0].ID, Name: msg.Players[0].Name, Deck: msg.Players[0].Deck},
		{ID: msg.Players[1].ID, Name: msg.Players[1].Name, Deck: msg.Players[1].Deck},
	}
	gameID, err := h.manager.CreateGame(specs)
	if err != nil {
		client.sendError(err.Error())
		return
	}
	client.gameID = gameID
	client.playerID = specs[0].ID
	if msg.PlayerID != "" {
		client.playerID = msg.PlayerID
	}
	h.broadcastGame(gameID)
}

func (h *Hub) joinGame(client *Client, msg ClientMessage) {
	client.gameID = msg.GameID
	client.playerID = msg.PlayerID

	err := h.manager.WithGame(msg.GameID, func(e *game.GameEngine) error {
		view, ok := e.ViewFor(client.playerID)
		if !ok {
			return nil
		}
		client.sendMessage(ServerMessage{Type: "game_state", GameID: msg.GameID, State: view})
		return nil
	})
	if err != nil {
		client.sendError(err.Error())
	}
}

// runAction executes one engine action under the game lock. Validation
// failures go back to the acting client only; successful actions
// broadcast the updated state to everyone in the game.
func (h *Hub) runAction(client *Client, fn func(*game.GameEngine) (*game.ActionResult, error)) {
	var result *game.ActionResult
	err := h.manager.WithGame(client.gameID, func(e *game.GameEngine) error {
		var actErr error
		result, actErr = fn(e)
		return actErr
	})
	if err != nil {
		if game.IsValidation(err) {
			client.sendError(err.Error())
		} else {
			h.logger.Error("action failed",
				zap.String("game_id", client.gameID),
				zap.String("player_id", client.playerID),
				zap.Error(err),
			)
			client.sendError("internal error")
		}
		return
	}

	client.sendMessage(ServerMessage{
		Type:    "action_result",
		GameID:  client.gameID,
		LogLine: result.LogLine,
		Winner:  result.Victory,
	})
	h.broadcastGame(client.gameID)
}

func (h *Hub) sendValidActions(client *Client) {
	err := h.manager.WithGame(client.gameID, func(e *game.GameEngine) error {
		actions := e.ValidActions(client.playerID)
		client.sendMessage(ServerMessage{
			Type:    "actions",
			GameID:  client.gameID,
			Actions: actionViews(actions),
		})
		return nil
	})
	if err != nil {
		client.sendError(err.Error())
	}
}

// broadcastGame sends each connected participant their own redacted view.
func (h *Hub) broadcastGame(gameID string) {
	h.mu.RLock()
	participants := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.gameID == gameID {
			participants = append(participants, client)
		}
	}
	h.mu.RUnlock()

	for _, c := range participants {
		_ = h.manager.WithGame(gameID, func(e *game.GameEngine) error {
			if view, ok := e.ViewFor(c.playerID); ok {
				c.sendMessage(ServerMessage{Type: "game_state", GameID: gameID, State: view})
			}
			return nil
		})
	}
}
