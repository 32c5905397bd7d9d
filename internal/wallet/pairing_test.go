package wallet

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/client"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopBackend struct{}

func (nopBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}

func (nopBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, ethereum.NotFound
}

func (nopBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (nopBackend) BlockNumber(context.Context) (uint64, error) {
	return 0, nil
}

type pairingFixture struct {
	relay     *Relay
	connector *PairingConnector
	prompts   chan string
}

func newPairingFixture(t *testing.T, timeout time.Duration) *pairingFixture {
	t.Helper()
	relay := NewRelay(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relay.ServeWS(w, r, strings.TrimPrefix(r.URL.Path, "/ws/pair/"))
	}))
	t.Cleanup(srv.Close)

	c := NewPairingConnector(PairingConfig{
		ProjectID: "test-project",
		ChainID:   56,
		RPCMap:    map[int64]string{56: "http://bsc.invalid"},
		RelayURL:  "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/pair/",
		Timeout:   timeout,
	}, relay, nil)
	c.dial = func(context.Context, string) (client.Backend, error) {
		return nopBackend{}, nil
	}

	return &pairingFixture{relay: relay, connector: c, prompts: make(chan string, 1)}
}

func (f *pairingFixture) prompt(uri string, qr []byte) {
	if len(qr) > 0 {
		f.prompts <- uri
	}
}

type connectResult struct {
	session *Session
	err     error
}

func (f *pairingFixture) connectAsync() <-chan connectResult {
	out := make(chan connectResult, 1)
	go func() {
		s, err := f.connector.Connect(context.Background(), f.prompt)
		out <- connectResult{session: s, err: err}
	}()
	return out
}

// joinAsWallet scans the URI like a wallet app would and opens the socket
func joinAsWallet(t *testing.T, uri string) (*websocket.Conn, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "wc:"))

	u, err := url.Parse(uri)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-project", q.Get("projectId"))
	assert.Equal(t, "eip155:56", q.Get("chainId"))

	conn, _, err := websocket.DefaultDialer.Dial(q.Get("relay-url"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, q.Get("symKey")
}

func waitPrompt(t *testing.T, f *pairingFixture) string {
	t.Helper()
	select {
	case uri := <-f.prompts:
		return uri
	case <-time.After(5 * time.Second):
		t.Fatal("pairing prompt was not shown")
		return ""
	}
}

func waitConnect(t *testing.T, ch <-chan connectResult) connectResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("connect did not return")
		return connectResult{}
	}
}

func TestPairingApproveAndSend(t *testing.T) {
	f := newPairingFixture(t, 5*time.Second)
	done := f.connectAsync()

	conn, key := joinAsWallet(t, waitPrompt(t, f))
	require.NoError(t, conn.WriteJSON(relayMessage{
		Type:     msgSessionApprove,
		SymKey:   key,
		Accounts: []string{"eip155:1:0x00000000000000000000000000000000000000bb", "eip155:56:" + testAccount.Hex()},
		ChainID:  56,
	}))

	res := waitConnect(t, done)
	require.NoError(t, res.err)
	assert.Equal(t, ConnectorWalletConnect, res.session.Connector)
	assert.Equal(t, testAccount, res.session.Address)

	// wallet side: answer the transaction request
	go func() {
		var req relayMessage
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		var args []map[string]string
		json.Unmarshal(req.Params, &args)
		if req.Method != "eth_sendTransaction" || len(args) != 1 || args[0]["chainId"] != "0x38" {
			conn.WriteJSON(relayMessage{Type: msgResponse, ID: req.ID, Error: &relayError{Code: -32602, Message: "bad request"}})
			return
		}
		conn.WriteJSON(relayMessage{Type: msgResponse, ID: req.ID, Result: json.RawMessage(`"0x000000000000000000000000000000000000000000000000000000000000beef"`)})
	}()

	hash, err := res.session.Signer.SendTransaction(context.Background(), testGame, []byte{0xca, 0xfe})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xbeef"), hash)

	topic := res.session.Signer.(*remoteSigner).p.topic
	require.NoError(t, res.session.Close())
	assert.Nil(t, f.relay.lookup(topic))
}

func TestPairingTransactionRejected(t *testing.T) {
	f := newPairingFixture(t, 5*time.Second)
	done := f.connectAsync()

	conn, key := joinAsWallet(t, waitPrompt(t, f))
	require.NoError(t, conn.WriteJSON(relayMessage{Type: msgSessionApprove, SymKey: key, Accounts: []string{testAccount.Hex()}}))

	res := waitConnect(t, done)
	require.NoError(t, res.err)
	defer res.session.Close()

	go func() {
		var req relayMessage
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		conn.WriteJSON(relayMessage{Type: msgResponse, ID: req.ID, Error: &relayError{Code: 4001, Message: "User rejected the transaction"}})
	}()

	_, err := res.session.Signer.SendTransaction(context.Background(), testGame, nil)
	require.Error(t, err)
	assert.Equal(t, "User rejected the transaction", err.Error())
}

func TestPairingSessionRejected(t *testing.T) {
	f := newPairingFixture(t, 5*time.Second)
	done := f.connectAsync()

	conn, _ := joinAsWallet(t, waitPrompt(t, f))
	require.NoError(t, conn.WriteJSON(relayMessage{Type: msgSessionReject, Error: &relayError{Message: "User rejected."}}))

	res := waitConnect(t, done)
	require.Error(t, res.err)
	assert.Equal(t, "User rejected.", res.err.Error())
}

func TestPairingWrongKey(t *testing.T) {
	f := newPairingFixture(t, 5*time.Second)
	done := f.connectAsync()

	conn, _ := joinAsWallet(t, waitPrompt(t, f))
	require.NoError(t, conn.WriteJSON(relayMessage{
		Type:     msgSessionApprove,
		SymKey:   strings.Repeat("00", symKeyLen),
		Accounts: []string{testAccount.Hex()},
	}))

	res := waitConnect(t, done)
	assert.Error(t, res.err)
	assert.Nil(t, res.session)
}

func TestPairingWrongChain(t *testing.T) {
	f := newPairingFixture(t, 5*time.Second)
	done := f.connectAsync()

	conn, key := joinAsWallet(t, waitPrompt(t, f))
	require.NoError(t, conn.WriteJSON(relayMessage{Type: msgSessionApprove, SymKey: key, Accounts: []string{testAccount.Hex()}, ChainID: 1}))

	res := waitConnect(t, done)
	assert.ErrorContains(t, res.err, "expected 56")
}

func TestPairingTimeout(t *testing.T) {
	f := newPairingFixture(t, 50*time.Millisecond)

	_, err := f.connector.Connect(context.Background(), f.prompt)
	assert.EqualError(t, err, "pairing timed out")
	assert.Empty(t, f.relay.pairings)
}

func TestPairingRequiresProjectID(t *testing.T) {
	c := NewPairingConnector(PairingConfig{ChainID: 56}, NewRelay(nil), nil)
	_, err := c.Connect(context.Background(), nil)
	assert.ErrorContains(t, err, "project id")
}

func TestServeWSUnknownTopic(t *testing.T) {
	relay := NewRelay(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relay.ServeWS(w, r, "missing")
	}))
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseAccount(t *testing.T) {
	chainID, addr, err := parseAccount("eip155:56:" + testAccount.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(56), chainID)
	assert.Equal(t, testAccount, addr)

	chainID, addr, err = parseAccount(testAccount.Hex())
	require.NoError(t, err)
	assert.Zero(t, chainID)
	assert.Equal(t, testAccount, addr)

	for _, bad := range []string{"", "solana:1:abc", "eip155:x:" + testAccount.Hex(), "eip155:56:0x12", "a:b"} {
		_, _, err := parseAccount(bad)
		assert.Error(t, err, bad)
	}
}
