package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/tracker"
)

const (
	aliveDatagram = "NOTIFY * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: http://192.168.1.20:49152/desc.xml\r\n" +
		"NT: upnp:rootdevice\r\n" +
		"NTS: ssdp:alive\r\n" +
		"SERVER: Linux/5.10 UPnP/1.0 test/1.0\r\n" +
		"USN: uuid:2fac1234-31f8-11b4-a222-08002b34c003::upnp:rootdevice\r\n" +
		"\r\n"
	byebyeDatagram = "NOTIFY * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"NT: upnp:rootdevice\r\n" +
		"NTS: ssdp:byebye\r\n" +
		"USN: uuid:2fac1234-31f8-11b4-a222-08002b34c003::upnp:rootdevice\r\n" +
		"\r\n"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(&Config{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.hub.CloseAll()
		ts.Close()
	})
	return s, ts
}

func parse(t *testing.T, raw string) notify.Message {
	t.Helper()
	msg, err := notify.ParseDatagram([]byte(raw))
	require.NoError(t, err)
	return msg
}

func TestDevicesEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	s.HandleMessage(parse(t, aliveDatagram))

	resp, err := http.Get(ts.URL + "/devices")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var entries []tracker.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "uuid:2fac1234-31f8-11b4-a222-08002b34c003", entries[0].UDN)
	assert.Equal(t, "UPnP/1.0", entries[0].UPnP)

	post, err := http.Post(ts.URL+"/devices", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	s.HandleMessage(parse(t, aliveDatagram))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, 1, h.Entries)
	assert.Equal(t, 1, h.Devices)
}

func TestWebSocketFeed(t *testing.T) {
	s, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.GetActiveConnections() == 1 },
		2*time.Second, 10*time.Millisecond)

	s.HandleMessage(parse(t, aliveDatagram))
	s.HandleMessage(parse(t, byebyeDatagram))
	// A second byebye changes nothing and is not broadcast.
	s.HandleMessage(parse(t, byebyeDatagram))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "added", ev.Change)
	assert.Equal(t, "http://192.168.1.20:49152/desc.xml", ev.Entry.Location)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "removed", ev.Change)
	assert.Zero(t, s.Tracker().Len())
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	c := &client{remoteAddr: "test", send: make(chan []byte, 1)}
	h.register(c)

	h.Broadcast(Event{Change: "added"})
	assert.Equal(t, 1, h.Count())

	h.Broadcast(Event{Change: "added"})
	assert.Zero(t, h.Count(), "full send buffer should disconnect the client")

	// Buffered event is still readable, then the channel is closed.
	_, ok := <-c.send
	assert.True(t, ok)
	_, ok = <-c.send
	assert.False(t, ok)
}
