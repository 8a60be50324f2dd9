package wsbridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/lookbusy1344/sixbit-toolchain/controller"
	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/vm"
)

func TestStepBroadcastsExecutionStepJSON(t *testing.T) {
	ctl := controller.New(vm.New(isa.New(), strings.NewReader(""), &bytes.Buffer{}))
	if _, err := ctl.LoadProgram("MOVER R0, 0\n"); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}

	b := New(ctl)
	server := httptest.NewServer(http.HandlerFunc(b.ServeHTTP))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// give ServeHTTP's goroutines a moment to register the client
	time.Sleep(50 * time.Millisecond)

	if err := b.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var step vm.ExecutionStep
	if err := json.Unmarshal(message, &step); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if step.Address != 0 {
		t.Fatalf("step.Address = %d, want 0", step.Address)
	}
}
