package apiserver

import (
	"net/http"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, statusOf(session))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusOf(session))
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.sessions.DestroySession(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRun loads and runs a script's initializer to completion, with
// no stepping or breakpoint support (use step/continue for that).
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req RunRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := session.Debugger.Load(req.Script); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := session.Debugger.Session.Run(nil); err != nil {
		s.broadcaster.BroadcastExecutionEvent(id, "error", map[string]any{"message": err.Error()})
		writeJSON(w, http.StatusOK, statusOf(session))
		return
	}
	s.broadcaster.BroadcastState(id, map[string]any{"status": "halted"})
	writeJSON(w, http.StatusOK, statusOf(session))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if session.Debugger.Session == nil {
		writeError(w, http.StatusBadRequest, "no script loaded, POST run or load one first")
		return
	}
	if err := session.Debugger.ExecuteCommand("step"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.broadcaster.BroadcastState(id, map[string]any{"status": "stepped"})
	writeJSON(w, http.StatusOK, statusOf(session))
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if session.Debugger.Session == nil {
		writeError(w, http.StatusBadRequest, "no script loaded, POST run or load one first")
		return
	}
	if err := session.Debugger.ExecuteCommand("continue"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if session.Debugger.Session.Done() {
		s.broadcaster.BroadcastState(id, map[string]any{"status": "halted"})
	} else {
		s.broadcaster.BroadcastExecutionEvent(id, "breakpoint", map[string]any{"offset": session.Debugger.Session.Position()})
	}
	writeJSON(w, http.StatusOK, statusOf(session))
}

func (s *Server) handleRegisters(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if session.Debugger.Session == nil {
		writeError(w, http.StatusBadRequest, "no script loaded")
		return
	}
	env := session.Debugger.Session.Environment()
	snapshot := RegisterSnapshot{}
	for _, v := range env.Registers {
		snapshot.Locals = append(snapshot.Locals, v.String())
	}
	for _, v := range env.OperandStack() {
		snapshot.Stack = append(snapshot.Stack, v.String())
	}
	for _, v := range env.ScopeStack() {
		snapshot.Scope = append(snapshot.Scope, v.String())
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": session.Output.drain()})
}

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req BreakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		bp := session.Debugger.Breakpoints.Add(req.Offset, false)
		writeJSON(w, http.StatusCreated, bp)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session.Debugger.Breakpoints.List())
}

func statusOf(session *Session) SessionStatus {
	status := SessionStatus{ID: session.ID, State: "loaded"}
	if session.Debugger.Session == nil {
		status.State = "ready"
		return status
	}
	status.Position = session.Debugger.Session.Position()
	if session.Debugger.Session.Done() {
		status.State = "halted"
		result, err := session.Debugger.Session.Result()
		if err != nil {
			status.State = "error"
			status.Error = err.Error()
		} else {
			status.Result = result.String()
		}
		return status
	}
	status.State = "running"
	return status
}
