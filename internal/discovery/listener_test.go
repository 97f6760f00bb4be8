package discovery

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

const aliveDatagram = "NOTIFY * HTTP/1.1\r\n" +
	"HOST: 239.255.255.250:1900\r\n" +
	"CACHE-CONTROL: max-age=1800\r\n" +
	"LOCATION: http://127.0.0.1:49152/desc.xml\r\n" +
	"NT: upnp:rootdevice\r\n" +
	"NTS: ssdp:alive\r\n" +
	"SERVER: Linux/5.10 UPnP/1.0 test/1.0\r\n" +
	"USN: uuid:2fac1234-31f8-11b4-a222-08002b34c003::upnp:rootdevice\r\n" +
	"\r\n"

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
	got  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{got: make(chan struct{}, 64)}
}

func (r *recorder) handle(msg notify.Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func loopbackOptions() Options {
	return Options{
		Interfaces:     []net.IP{net.IPv4(127, 0, 0, 1)},
		ReceiveTimeout: 50 * time.Millisecond,
	}
}

func send(t *testing.T, to net.Addr, payload string) {
	t.Helper()
	conn, err := net.Dial("udp4", to.String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte(payload))
	require.NoError(t, err)
}

func TestListenerDeliversValidNotification(t *testing.T) {
	rec := newRecorder()
	l, err := New(rec.handle, loopbackOptions())
	require.NoError(t, err)
	defer l.Stop()

	addrs := l.Addrs()
	require.Len(t, addrs, 1)
	port := addrs[0].(*net.UDPAddr).Port
	assert.GreaterOrEqual(t, port, UnusedPortStart)
	assert.LessOrEqual(t, port, UnusedPortEnd)

	send(t, addrs[0], "this is not ssdp")
	send(t, addrs[0], aliveDatagram)

	select {
	case <-rec.got:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
	}

	// Give the worker a chance to deliver anything unexpected.
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, rec.count())

	msg := rec.msgs[0]
	assert.Equal(t, notify.Alive, msg.Type())
	assert.Equal(t, "uuid:2fac1234-31f8-11b4-a222-08002b34c003", msg.Query().UDN())
}

func TestListenerObservesSearch(t *testing.T) {
	searches := make(chan *ssdp.SearchRequest, 1)
	datagrams := make(chan Datagram, 4)

	opts := loopbackOptions()
	opts.OnSearch = func(req *ssdp.SearchRequest, _ net.Addr) { searches <- req }
	opts.OnDatagram = func(d Datagram) { datagrams <- d }

	rec := newRecorder()
	l, err := New(rec.handle, opts)
	require.NoError(t, err)
	defer l.Stop()

	search := ssdp.NewSearchRequest(ssdp.ST{All: true}, 2)
	send(t, l.Addrs()[0], string(search.Bytes()))

	select {
	case req := <-searches:
		assert.True(t, req.ST.All)
		assert.Equal(t, 2, req.MX)
	case <-time.After(2 * time.Second):
		t.Fatal("search not observed")
	}

	d := <-datagrams
	assert.True(t, d.Interface.Equal(net.IPv4(127, 0, 0, 1)))
	assert.Equal(t, search.Bytes(), d.Payload)
	assert.Zero(t, rec.count())
}

func TestListenerStop(t *testing.T) {
	l, err := New(func(notify.Message) {}, loopbackOptions())
	require.NoError(t, err)

	start := time.Now()
	l.Stop()
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}

	// Second call must not block or panic.
	l.Stop()

	// The socket has been released.
	addr := l.Addrs()[0].(*net.UDPAddr)
	conn, err := net.ListenUDP("udp4", addr)
	require.NoError(t, err)
	conn.Close()
}

// twoLoopbackOptions binds 127.0.0.1 and 127.0.0.2. Platforms that only
// route 127.0.0.1 skip the calling test.
func twoLoopbackOptions(t *testing.T) Options {
	t.Helper()
	second := net.IPv4(127, 0, 0, 2)
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: second})
	if err != nil {
		t.Skipf("cannot bind %s: %v", second, err)
	}
	conn.Close()

	return Options{
		Interfaces:     []net.IP{net.IPv4(127, 0, 0, 1), second},
		ReceiveTimeout: 250 * time.Millisecond,
	}
}

func waitFor(t *testing.T, rec *recorder, n int, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for i := 0; i < n; i++ {
		select {
		case <-rec.got:
		case <-deadline:
			t.Fatalf("got %d of %d notifications within %s", rec.count(), n, within)
		}
	}
}

func TestListenerIdleSocketDoesNotDelayBusyOne(t *testing.T) {
	rec := newRecorder()
	l, err := New(rec.handle, twoLoopbackOptions(t))
	require.NoError(t, err)
	defer l.Stop()

	addrs := l.Addrs()
	require.Len(t, addrs, 2)

	const burst = 20
	start := time.Now()
	for i := 0; i < burst; i++ {
		send(t, addrs[0], aliveDatagram)
	}

	// One idle slice per socket at most, not one per datagram.
	waitFor(t, rec, burst, time.Second)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, burst, rec.count())
}

func TestListenerDeliversFromEverySocket(t *testing.T) {
	rec := newRecorder()
	l, err := New(rec.handle, twoLoopbackOptions(t))
	require.NoError(t, err)
	defer l.Stop()

	for _, addr := range l.Addrs() {
		send(t, addr, aliveDatagram)
		send(t, addr, aliveDatagram)
	}
	waitFor(t, rec, 4, 2*time.Second)
}

func TestListenerStopEndsDelivery(t *testing.T) {
	rec := newRecorder()
	opts := twoLoopbackOptions(t)
	l, err := New(rec.handle, opts)
	require.NoError(t, err)

	addrs := l.Addrs()
	send(t, addrs[1], aliveDatagram)
	waitFor(t, rec, 1, 2*time.Second)

	start := time.Now()
	l.Stop()
	assert.Less(t, time.Since(start), opts.ReceiveTimeout+200*time.Millisecond)

	for _, addr := range addrs {
		send(t, addr, aliveDatagram)
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestInterfaceIPFromControlMessage(t *testing.T) {
	l := &Listener{}
	assert.Nil(t, l.interfaceIP(0))

	ifaces, err := net.Interfaces()
	require.NoError(t, err)
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		var want net.IP
		for _, a := range addrs {
			if want = ipv4Of(a); want != nil {
				break
			}
		}
		if want == nil {
			continue
		}

		got := l.interfaceIP(ifi.Index)
		assert.True(t, got.Equal(want), "interface %s: got %v, want %v", ifi.Name, got, want)
		assert.Contains(t, l.ifaceIPs, ifi.Index)
		return
	}
	t.Skip("no interface with an IPv4 address")
}

func TestListenerBindFailure(t *testing.T) {
	taken, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer taken.Close()

	opts := loopbackOptions()
	opts.Port = taken.LocalAddr().(*net.UDPAddr).Port

	l, err := New(func(notify.Message) {}, opts)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.True(t, ssdp.IsType(err, ssdp.ErrTypeTransport))
}

func TestNewRejectsNilHandler(t *testing.T) {
	_, err := New(nil, loopbackOptions())
	assert.Error(t, err)
}

func TestParseIPv4List(t *testing.T) {
	ips, err := ParseIPv4List([]string{"127.0.0.1", "192.168.1.2"})
	require.NoError(t, err)
	require.Len(t, ips, 2)
	assert.True(t, ips[1].Equal(net.IPv4(192, 168, 1, 2)))

	_, err = ParseIPv4List([]string{"::1"})
	assert.Error(t, err)
	_, err = ParseIPv4List([]string{"nope"})
	assert.Error(t, err)
}

func TestBindInRangeRejectsBadBounds(t *testing.T) {
	_, err := bindInRange(net.IPv4(127, 0, 0, 1), 80, 2000)
	assert.Error(t, err)
	_, err = bindInRange(net.IPv4(127, 0, 0, 1), 2000, 60000)
	assert.Error(t, err)
}
