package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrProtoVersion,
		ErrSessionBusy,
		ErrRateLimit,
		ErrStale,
		ErrBadRequest,
		ErrUnknownPlayer,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestEventMsg_Involves(t *testing.T) {
	m := EventMsg{From: 1, To: 3}
	if !m.Involves(nil) || !m.Involves([]int{3}) || !m.Involves([]int{0, 1}) {
		t.Fatalf("expected match")
	}
	if m.Involves([]int{0, 2}) {
		t.Fatalf("unexpected match")
	}
}
