package inmemory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/truevoice/server/internal/repository/connection"
)

const writeWait = 10 * time.Second

type entry struct {
	conn      *websocket.Conn
	sessionID string
	writeMu   sync.Mutex
}

type repo struct {
	connList map[*websocket.Conn]*entry
	idList   map[string]*entry
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]*entry),
		idList:   make(map[string]*entry),
		logger:   logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, sessionID string) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionID)
	if r.connList[conn] != nil || r.idList[sessionID] != nil {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	e := &entry{conn: conn, sessionID: sessionID}
	r.connList[conn] = e
	r.idList[sessionID] = e

	return nil
}

// RemoveByConn forgets the connection. Closing it is left to the caller.
func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	funcName := "connection.inmemory.RemoveByConn"
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.connList[conn]
	if !ok {
		r.logger.Debug(funcName, "error", connection.ErrNotFound)
		return "", connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, e.sessionID)

	r.logger.Debug(funcName, "session_id", e.sessionID)
	return e.sessionID, nil
}

func (r *repo) RemoveBySessionID(sessionID string) error {
	funcName := "connection.inmemory.RemoveBySessionID"
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.idList[sessionID]
	if !ok {
		r.logger.Debug(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	delete(r.connList, e.conn)
	delete(r.idList, sessionID)

	return nil
}

func (r *repo) GetSessionID(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return e.sessionID, nil
}

func (r *repo) GetConn(sessionID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.idList[sessionID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return e.conn, nil
}

func (r *repo) SessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.idList))
	for id := range r.idList {
		ids = append(ids, id)
	}

	return ids
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.idList)
}

// Send writes v as JSON to the session's connection. Writes to one
// connection never interleave.
func (r *repo) Send(sessionID string, v any) error {
	r.mu.RLock()
	e, ok := r.idList[sessionID]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return e.conn.WriteJSON(v)
}

// Broadcast sends v to every connection and returns the sessions whose
// write failed.
func (r *repo) Broadcast(v any) []string {
	var failed []string
	for _, id := range r.SessionIDs() {
		if err := r.Send(id, v); err != nil {
			r.logger.Debug("connection.inmemory.Broadcast", "session_id", id, "error", err)
			failed = append(failed, id)
		}
	}

	return failed
}
