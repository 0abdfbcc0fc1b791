package apiserver

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/debugger"
	"github.com/avm2run/avm2/swf"
	"github.com/avm2run/avm2/vm"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is one loaded program under debugger control, addressable
// over HTTP by its ID.
type Session struct {
	ID        string
	Debugger  *debugger.Debugger
	Output    *eventWriter
	CreatedAt time.Time
}

// SessionManager owns every active Session, keyed by ID.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session), broadcaster: broadcaster}
}

// CreateSession decodes the uploaded program (an SWF's first DoABC tag
// takes priority over a bare ABC payload), links it, and returns a
// fresh session with a debugger attached but no script loaded yet.
func (sm *SessionManager) CreateSession(req LoadRequest) (*Session, error) {
	abcBytes, err := selectABCBytes(req)
	if err != nil {
		return nil, err
	}

	file, err := abc.Decode(abcBytes)
	if err != nil {
		return nil, fmt.Errorf("decode abc: %w", err)
	}
	program, err := vm.Link(file)
	if err != nil {
		return nil, fmt.Errorf("link abc: %w", err)
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	machine := vm.NewVM(program)
	output := newEventWriter(sm.broadcaster, id, "stdout")
	machine.ExecutionTrace = vm.NewExecutionTrace(output)
	machine.Statistics = vm.NewPerformanceStatistics()

	session := &Session{
		ID:        id,
		Debugger:  debugger.New(machine),
		Output:    output,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, exists := sm.sessions[id]; exists {
		return nil, ErrSessionAlreadyExists
	}
	sm.sessions[id] = session
	return session, nil
}

func selectABCBytes(req LoadRequest) ([]byte, error) {
	if len(req.SWF) > 0 {
		tags, err := swf.ParseTags(req.SWF)
		if err != nil {
			return nil, fmt.Errorf("parse swf: %w", err)
		}
		doabc, err := swf.ExtractDoABC(tags)
		if err != nil {
			return nil, fmt.Errorf("extract doabc: %w", err)
		}
		if len(doabc) == 0 {
			return nil, errors.New("swf contains no DoABC tags")
		}
		return doabc[0].ABCBytes, nil
	}
	if len(req.ABC) > 0 {
		return req.ABC, nil
	}
	return nil, errors.New("request carries neither abc nor swf payload")
}

func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
