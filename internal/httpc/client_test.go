package httpc

import (
	"net/http"
	"testing"
)

func TestClients(t *testing.T) {
	if Stream.Timeout != 0 {
		t.Errorf("stream client must not bound the body, got %v", Stream.Timeout)
	}

	tr, ok := Stream.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("unexpected transport type %T", Stream.Transport)
	}
	if tr.ResponseHeaderTimeout != DefaultHeaderTimeout {
		t.Errorf("expected header timeout %v, got %v", DefaultHeaderTimeout, tr.ResponseHeaderTimeout)
	}
}
