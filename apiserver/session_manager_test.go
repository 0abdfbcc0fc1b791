package apiserver

import (
	"bytes"
	"testing"
)

// buildMinimalABC mirrors the smallest decodable ABC layout: one script
// whose initializer is a single returnvoid-only method body.
func buildMinimalABC() []byte {
	var b []byte
	putU16 := func(v uint16) { b = append(b, byte(v), byte(v>>8)) }
	putVarU30 := func(v uint32) {
		for {
			c := byte(v & 0x7F)
			v >>= 7
			if v != 0 {
				b = append(b, c|0x80)
			} else {
				b = append(b, c)
				break
			}
		}
	}

	putU16(16)
	putU16(46)
	for i := 0; i < 7; i++ {
		putVarU30(0)
	}
	putVarU30(1)
	putVarU30(0)
	putVarU30(0)
	putVarU30(0)
	b = append(b, 0)
	putVarU30(0)
	putVarU30(0)
	putVarU30(1)
	putVarU30(0)
	putVarU30(0)
	putVarU30(1)
	putVarU30(0)
	putVarU30(1)
	putVarU30(1)
	putVarU30(0)
	putVarU30(1)
	putVarU30(1)
	b = append(b, 0x47)
	putVarU30(0)
	putVarU30(0)
	return b
}

func u16le(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

func encodeShortTag(code uint16, body []byte) []byte {
	header := u16le(code<<6 | uint16(len(body)))
	return append(header, body...)
}

func buildSWFWithDoABC(abcBytes []byte) []byte {
	doABCBody := append([]byte{1, 0, 0, 0}, append([]byte("main\x00"), abcBytes...)...)
	tagStream := append(encodeShortTag(82, doABCBody), encodeShortTag(0, nil)...)

	var buf bytes.Buffer
	buf.WriteString("FWS")
	buf.WriteByte(6)
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteByte(0x08)
	buf.WriteByte(0x00)
	buf.Write(u16le(12))
	buf.Write(u16le(1))
	buf.Write(tagStream)
	return buf.Bytes()
}

func TestCreateSessionFromRawABC(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	session, err := sm.CreateSession(LoadRequest{ABC: buildMinimalABC()})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("expected a non-empty session ID")
	}
	if session.Debugger == nil {
		t.Fatalf("expected a debugger to be attached")
	}

	got, err := sm.GetSession(session.ID)
	if err != nil || got != session {
		t.Fatalf("GetSession: %v, %v", got, err)
	}
	if sm.Count() != 1 {
		t.Fatalf("expected 1 active session, got %d", sm.Count())
	}
}

func TestCreateSessionFromSWF(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	swfBytes := buildSWFWithDoABC(buildMinimalABC())
	session, err := sm.CreateSession(LoadRequest{SWF: swfBytes})
	if err != nil {
		t.Fatalf("CreateSession from SWF: %v", err)
	}
	if session.Debugger == nil {
		t.Fatalf("expected a debugger to be attached")
	}
}

func TestCreateSessionPrefersSWFOverBareABC(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	swfBytes := buildSWFWithDoABC(buildMinimalABC())
	// A bare ABC payload that would fail to decode on its own must be
	// ignored since a valid SWF payload was also supplied.
	session, err := sm.CreateSession(LoadRequest{SWF: swfBytes, ABC: []byte{0xFF}})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Debugger == nil {
		t.Fatalf("expected a debugger to be attached")
	}
}

func TestCreateSessionRejectsEmptyPayload(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	if _, err := sm.CreateSession(LoadRequest{}); err == nil {
		t.Fatalf("expected an error for an empty load request")
	}
}

func TestCreateSessionRejectsSWFWithoutDoABC(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())

	var buf bytes.Buffer
	buf.WriteString("FWS")
	buf.WriteByte(6)
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteByte(0x08)
	buf.WriteByte(0x00)
	buf.Write(u16le(12))
	buf.Write(u16le(1))
	buf.Write(encodeShortTag(0, nil))

	if _, err := sm.CreateSession(LoadRequest{SWF: buf.Bytes()}); err == nil {
		t.Fatalf("expected an error for a SWF without any DoABC tag")
	}
}

func TestCreateSessionRejectsMalformedABC(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	if _, err := sm.CreateSession(LoadRequest{ABC: []byte{0x01}}); err == nil {
		t.Fatalf("expected a decode error for truncated ABC bytes")
	}
}

func TestGetSessionUnknownIDErrors(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	if _, err := sm.GetSession("missing"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDestroySessionRemovesIt(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	session, err := sm.CreateSession(LoadRequest{ABC: buildMinimalABC()})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := sm.DestroySession(session.ID); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}
	if _, err := sm.GetSession(session.ID); err != ErrSessionNotFound {
		t.Fatalf("expected session to be gone, got %v", err)
	}
	if err := sm.DestroySession(session.ID); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound destroying twice, got %v", err)
	}
}

func TestListSessionsReturnsEveryID(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())
	a, _ := sm.CreateSession(LoadRequest{ABC: buildMinimalABC()})
	b, _ := sm.CreateSession(LoadRequest{ABC: buildMinimalABC()})

	ids := sm.ListSessions()
	if len(ids) != 2 {
		t.Fatalf("expected 2 session IDs, got %v", ids)
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[a.ID] || !seen[b.ID] {
		t.Fatalf("expected both session IDs present, got %v", ids)
	}
}
