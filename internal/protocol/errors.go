package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Session state.
	ErrSessionBusy = "E_SESSION_BUSY"
	ErrRateLimit   = "E_RATE_LIMIT"
	ErrStale       = "E_STALE"

	// Request layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownPlayer = "E_UNKNOWN_PLAYER"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrSessionBusy:     {},
	ErrRateLimit:       {},
	ErrStale:           {},
	ErrBadRequest:      {},
	ErrUnknownPlayer:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
