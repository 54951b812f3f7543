//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350

	rpcOpenSession = "echoes_open_session"
)

// Op codes mirrored from the server module.
const (
	OpStartSession   = 1
	OpNextRound      = 2
	OpInput          = 3
	OpSessionStarted = 101
	OpRoundStarted   = 102
	OpOutcome        = 103
	OpRoundEnded     = 106
	OpSessionEnded   = 107
	OpSnapshot       = 108
	OpError          = 109
)

type TestClient struct {
	http    *http.Client
	baseURL string
	Token   string
	Conn    *websocket.Conn

	mu      sync.Mutex
	cid     int
	inbox   chan *rtapi.Envelope
	closeCh chan struct{}
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	tc := &TestClient{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: fmt.Sprintf("http://%s:%d", Host, Port),
		inbox:   make(chan *rtapi.Envelope, 1024),
		closeCh: make(chan struct{}),
	}

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())
	body := fmt.Sprintf(`{"id":%q}`, deviceID)
	req, _ := http.NewRequest(http.MethodPost, tc.baseURL+"/v2/account/authenticate/device?create=true", bytes.NewBufferString(body))
	req.SetBasicAuth(ServerKey, "")
	raw := tc.do(t, req)

	session := &api.Session{}
	if err := protojson.Unmarshal(raw, session); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	tc.Token = session.Token

	wsURL := fmt.Sprintf("ws://%s:%d/ws?format=protobuf&token=%s", Host, Port, url.QueryEscape(tc.Token))
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	tc.Conn = conn
	go tc.readLoop()

	return tc
}

func (tc *TestClient) do(t *testing.T, req *http.Request) []byte {
	t.Helper()
	req.Header.Set("Content-Type", "application/json")
	resp, err := tc.http.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, raw)
	}
	return raw
}

func (tc *TestClient) readLoop() {
	defer close(tc.inbox)
	for {
		_, data, err := tc.Conn.ReadMessage()
		if err != nil {
			return
		}
		env := &rtapi.Envelope{}
		if err := proto.Unmarshal(data, env); err != nil {
			continue
		}
		select {
		case tc.inbox <- env:
		case <-tc.closeCh:
			return
		}
	}
}

func (tc *TestClient) Close() {
	if tc.Conn != nil {
		close(tc.closeCh)
		tc.Conn.Close()
	}
}

func (tc *TestClient) send(t *testing.T, env *rtapi.Envelope) {
	t.Helper()
	tc.mu.Lock()
	tc.cid++
	env.Cid = strconv.Itoa(tc.cid)
	tc.mu.Unlock()

	data, err := proto.Marshal(env)
	if err != nil {
		t.Fatalf("Failed to marshal envelope: %v", err)
	}
	if err := tc.Conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("Failed to write envelope: %v", err)
	}
}

// OpenSession calls the open-session RPC and returns the match id and ticket.
func (tc *TestClient) OpenSession(t *testing.T) (string, string) {
	t.Helper()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.baseURL+"/v2/rpc/"+rpcOpenSession, bytes.NewBufferString(`"{}"`))
	req.Header.Set("Authorization", "Bearer "+tc.Token)
	raw := tc.do(t, req)

	rpc := &api.Rpc{}
	if err := protojson.Unmarshal(raw, rpc); err != nil {
		t.Fatalf("Failed to decode rpc response: %v", err)
	}
	return jsonField(rpc.Payload, "match_id"), jsonField(rpc.Payload, "ticket")
}

// JoinMatch joins as the console, claiming seats.
func (tc *TestClient) JoinMatch(t *testing.T, matchID, ticket, seats string) {
	t.Helper()
	tc.send(t, &rtapi.Envelope{Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
		Id:       &rtapi.MatchJoin_MatchId{MatchId: matchID},
		Metadata: map[string]string{"ticket": ticket, "seats": seats},
	}}})
}

// Send delivers a structpb payload to the match.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, fields map[string]interface{}) {
	t.Helper()
	payload, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("Failed to build payload: %v", err)
	}
	data, err := proto.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	tc.send(t, &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   opCode,
		Data:     data,
		Reliable: true,
	}}})
}

// WaitForMatchData waits for opCode and decodes its payload. Other traffic is
// dropped; a socket error fails the test.
func (tc *TestClient) WaitForMatchData(t *testing.T, opCode int64, timeout time.Duration) *structpb.Struct {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case env, ok := <-tc.inbox:
			if !ok {
				t.Fatalf("Socket closed waiting for OpCode %d", opCode)
			}
			if e := env.GetError(); e != nil {
				t.Fatalf("Socket error waiting for OpCode %d: %s", opCode, e.GetMessage())
			}
			data := env.GetMatchData()
			if data == nil || data.GetOpCode() != opCode {
				continue
			}
			payload := &structpb.Struct{}
			if err := proto.Unmarshal(data.GetData(), payload); err != nil {
				t.Fatalf("Failed to unmarshal OpCode %d: %v", opCode, err)
			}
			return payload
		case <-deadline:
			t.Fatalf("Timeout waiting for OpCode %d", opCode)
			return nil
		}
	}
}

func jsonField(doc, path string) string {
	return gjson.Get(doc, path).String()
}
