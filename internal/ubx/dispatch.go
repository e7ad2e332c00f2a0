package ubx

// Packet is implemented by every borrowed and owned packet variant,
// including the Unknown fallback. It carries just enough to let a consumer
// log or route a frame without a type switch; the accessor methods live on
// the concrete types themselves.
type Packet interface {
	Class() byte
	MsgID() byte
}

// Unknown is the dispatcher fallback for a well-formed frame whose
// (class, id) has no registered schema, or whose schema is not part of the
// selected ProtocolVersion. Payload borrows the parser's buffer exactly
// like any other *Ref type and is invalidated the same way: its bytes may
// be overwritten once the iteration commits and the next Feed call runs.
type Unknown struct {
	class, msgID byte
	Payload      []byte
}

func (u *Unknown) Class() byte { return u.class }
func (u *Unknown) MsgID() byte { return u.msgID }

// Owned returns a detached copy of Unknown whose Payload does not alias the
// parser buffer.
func (u *Unknown) Owned() *Unknown {
	cp := make([]byte, len(u.Payload))
	copy(cp, u.Payload)
	return &Unknown{class: u.class, msgID: u.msgID, Payload: cp}
}

type decodeFunc func(payload []byte) (Packet, error)

type registryEntry struct {
	name        string
	versions    VersionSet
	decode      decodeFunc
	decodeOwned decodeFunc
}

// registry is the dispatcher's (class, id) -> packet table, per Design
// Notes §9's "small table of (class, id) -> parser function" alternative to
// compile-time code generation. Packet files populate it via register() in
// their own init().
var registry = map[uint16]registryEntry{}

func key(class, msgID byte) uint16 { return uint16(class)<<8 | uint16(msgID) }

func register(class, msgID byte, name string, versions VersionSet, decode, decodeOwned decodeFunc) {
	registry[key(class, msgID)] = registryEntry{
		name:        name,
		versions:    versions,
		decode:      decode,
		decodeOwned: decodeOwned,
	}
}

// MatchPacket dispatches a fully-framed (class, id, payload) to its typed
// borrowed view. payload aliases the parser's buffer. Packets not
// registered, or registered but outside version, decode as *Unknown (never
// an error) — only a registered packet's own validator can fail.
func MatchPacket(version ProtocolVersion, class, msgID byte, payload []byte) (Packet, error) {
	e, ok := registry[key(class, msgID)]
	if !ok || !e.versions.Contains(version) {
		return &Unknown{class: class, msgID: msgID, Payload: payload}, nil
	}
	return e.decode(payload)
}

// MatchPacketOwned is the detached-copy sibling of MatchPacket: the
// returned Packet's fields never alias the parser buffer.
func MatchPacketOwned(version ProtocolVersion, class, msgID byte, payload []byte) (Packet, error) {
	e, ok := registry[key(class, msgID)]
	if !ok || !e.versions.Contains(version) {
		cp := make([]byte, len(payload))
		copy(cp, payload)
		return &Unknown{class: class, msgID: msgID, Payload: cp}, nil
	}
	return e.decodeOwned(payload)
}
