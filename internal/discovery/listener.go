package discovery

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

const (
	// DefaultReceiveTimeout bounds one idle poll cycle over all sockets, and
	// so also bounds how long Stop waits for the worker.
	DefaultReceiveTimeout = 250 * time.Millisecond

	// DefaultBufferSize fits any SSDP datagram seen in practice.
	DefaultBufferSize = 8192

	minPollSlice = time.Millisecond

	// readyWait is the deadline used to pick up datagrams that are already
	// queued on a socket.
	readyWait = time.Millisecond
)

// Handler receives every successfully parsed notification. It runs on the
// listener's worker goroutine and delays delivery of later datagrams while
// it runs.
type Handler func(notify.Message)

// SearchHandler receives M-SEARCH requests other control points send to the
// multicast group.
type SearchHandler func(req *ssdp.SearchRequest, from net.Addr)

// Datagram is a raw datagram as read from one of the listener's sockets.
type Datagram struct {
	Received  time.Time
	Interface net.IP
	Source    net.Addr
	Payload   []byte
}

// Options configures a Listener. Zero durations and sizes fall back to the
// package defaults. See DefaultOptions for the usual multicast setup.
type Options struct {
	// Interfaces lists the local IPv4 addresses to bind. Empty means all.
	Interfaces []net.IP
	// ReceiveTimeout is the upper bound on one poll cycle.
	ReceiveTimeout time.Duration
	// BufferSize is the receive buffer size per datagram.
	BufferSize int
	// Multicast joins 239.255.255.250 on each interface and listens on
	// Port (1900 when zero). Without it each socket is a plain unicast
	// socket on ip:Port, or the first free port from 1024 up when Port is 0.
	Multicast bool
	Port      int

	// OnSearch is called for valid M-SEARCH requests. Optional.
	OnSearch SearchHandler
	// OnDatagram is called with every datagram before it is parsed. Optional.
	OnDatagram func(Datagram)
}

// DefaultOptions listens for multicast notifications on every interface.
func DefaultOptions() Options {
	return Options{
		ReceiveTimeout: DefaultReceiveTimeout,
		BufferSize:     DefaultBufferSize,
		Multicast:      true,
		Port:           ssdp.MulticastPort,
	}
}

type socket struct {
	conn  *net.UDPConn
	pconn *ipv4.PacketConn // nil for unicast sockets
	local net.IP
}

// Listener receives SSDP datagrams on one UDP socket per interface and
// hands parsed notifications to a Handler from a single worker goroutine.
type Listener struct {
	handler Handler
	opts    Options
	sockets []*socket
	buf     []byte

	// ifaceIPs caches control message interface indexes; worker only.
	ifaceIPs map[int]net.IP

	stopped atomic.Bool
	done    chan struct{}
}

// New binds the sockets and starts the worker. If any socket cannot be
// bound, the ones already bound are closed and a transport error is
// returned; no worker is started.
func New(handler Handler, opts Options) (*Listener, error) {
	if handler == nil {
		return nil, errors.New("discovery: nil handler")
	}
	if opts.ReceiveTimeout <= 0 {
		opts.ReceiveTimeout = DefaultReceiveTimeout
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Multicast && opts.Port == 0 {
		opts.Port = ssdp.MulticastPort
	}

	ips := opts.Interfaces
	if len(ips) == 0 {
		var err error
		ips, err = LocalIPv4Addrs(opts.Multicast)
		if err != nil {
			return nil, err
		}
		if len(ips) == 0 {
			return nil, ssdp.Transport("no usable IPv4 interfaces", nil)
		}
	}

	l := &Listener{
		handler: handler,
		opts:    opts,
		buf:     make([]byte, opts.BufferSize),
		done:    make(chan struct{}),
	}

	for _, ip := range ips {
		s, err := bindSocket(ip, opts)
		if err != nil {
			l.closeSockets()
			return nil, ssdp.Transport(fmt.Sprintf("failed to bind %s", ip), err)
		}
		l.sockets = append(l.sockets, s)
	}

	logging.Info("Listener started",
		zap.Int("sockets", len(l.sockets)),
		zap.Bool("multicast", opts.Multicast),
		zap.Duration("receive_timeout", opts.ReceiveTimeout),
	)

	go l.run()
	return l, nil
}

func bindSocket(ip net.IP, opts Options) (*socket, error) {
	ip = ip.To4()
	if ip == nil {
		return nil, errors.New("not an IPv4 address")
	}

	if !opts.Multicast {
		var (
			conn *net.UDPConn
			err  error
		)
		if opts.Port == 0 {
			conn, err = bindInRange(ip, UnusedPortStart, UnusedPortEnd)
		} else {
			conn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: opts.Port})
		}
		if err != nil {
			return nil, err
		}
		return &socket{conn: conn, local: ip}, nil
	}

	ifi, err := interfaceByIP(ip)
	if err != nil {
		return nil, err
	}
	group := &net.UDPAddr{IP: net.ParseIP(ssdp.MulticastAddr), Port: opts.Port}
	conn, err := net.ListenMulticastUDP("udp4", ifi, group)
	if err != nil {
		return nil, err
	}

	pconn := ipv4.NewPacketConn(conn)
	if err := pconn.SetMulticastLoopback(true); err != nil {
		logging.Debug("Failed to enable multicast loopback", zap.String("interface", ifi.Name), zap.Error(err))
	}
	if err := pconn.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		logging.Debug("Control messages unavailable", zap.String("interface", ifi.Name), zap.Error(err))
	}

	return &socket{conn: conn, pconn: pconn, local: ip}, nil
}

// Addrs returns the local address of every bound socket.
func (l *Listener) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(l.sockets))
	for i, s := range l.sockets {
		addrs[i] = s.conn.LocalAddr()
	}
	return addrs
}

// Stop asks the worker to exit and waits until it has released every socket.
// It is safe to call more than once and from several goroutines, but not from
// within the Handler.
func (l *Listener) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		logging.Debug("Listener stop requested")
	}
	<-l.done
}

// Done is closed once the worker has exited.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) run() {
	defer close(l.done)
	defer l.closeSockets()

	slice := l.opts.ReceiveTimeout / time.Duration(len(l.sockets))
	if slice < minPollSlice {
		slice = minPollSlice
	}

	// After a pass that found traffic every socket is only checked for
	// datagrams already queued; the full slice is spent waiting only when
	// the previous pass found nothing anywhere.
	wait := slice
	for !l.stopped.Load() {
		received := 0
		for _, s := range l.sockets {
			if l.stopped.Load() {
				return
			}
			received += l.drain(s, wait)
		}
		if received > 0 {
			wait = readyWait
		} else {
			wait = slice
		}
	}
}

// drain waits up to wait for a datagram on s, then keeps reading whatever
// is already queued. It returns the number of datagrams dispatched.
func (l *Listener) drain(s *socket, wait time.Duration) int {
	n := 0
	for !l.stopped.Load() {
		if !l.poll(s, wait) {
			break
		}
		n++
		wait = readyWait
	}
	return n
}

// poll waits up to wait for one datagram on s and dispatches it. It reports
// whether a datagram was read.
func (l *Listener) poll(s *socket, wait time.Duration) bool {
	if err := s.conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		logging.Warn("Failed to set read deadline", zap.String("interface", s.local.String()), zap.Error(err))
		time.Sleep(wait)
		return false
	}

	var (
		n   int
		src net.Addr
		err error
	)
	iface := s.local
	if s.pconn != nil {
		var cm *ipv4.ControlMessage
		n, cm, src, err = s.pconn.ReadFrom(l.buf)
		if err == nil && cm != nil {
			if ip := l.interfaceIP(cm.IfIndex); ip != nil {
				iface = ip
			}
		}
	} else {
		n, src, err = s.conn.ReadFrom(l.buf)
	}

	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return false
		}
		logging.Warn("Receive failed", zap.String("interface", s.local.String()), zap.Error(err))
		time.Sleep(wait)
		return false
	}

	payload := make([]byte, n)
	copy(payload, l.buf[:n])

	l.dispatch(Datagram{
		Received:  time.Now(),
		Interface: iface,
		Source:    src,
		Payload:   payload,
	})
	return true
}

// interfaceIP maps the interface index from a control message to its IPv4
// address. Only the worker calls it.
func (l *Listener) interfaceIP(index int) net.IP {
	if index <= 0 {
		return nil
	}
	if ip, ok := l.ifaceIPs[index]; ok {
		return ip
	}
	ip := ipv4ByIndex(index)
	if l.ifaceIPs == nil {
		l.ifaceIPs = make(map[int]net.IP)
	}
	l.ifaceIPs[index] = ip
	return ip
}

// dispatch parses one datagram. Failures are logged and dropped.
func (l *Listener) dispatch(d Datagram) {
	source := addrString(d.Source)
	logging.LogDatagram(d.Interface.String(), source, d.Payload)

	if l.opts.OnDatagram != nil {
		l.opts.OnDatagram(d)
	}

	req, err := ssdp.ParseRequest(d.Payload)
	if err != nil {
		logging.LogDropped(source, d.Payload, err)
		return
	}

	if req.Method == ssdp.MethodSearch {
		sr, err := ssdp.ParseSearchRequest(req)
		if err != nil {
			logging.LogDropped(source, d.Payload, err)
			return
		}
		logging.Debug("Search observed", zap.String("source", source), zap.String("st", sr.ST.String()))
		if l.opts.OnSearch != nil {
			l.opts.OnSearch(sr, d.Source)
		}
		return
	}

	msg, err := notify.ParseRequest(req)
	if err != nil {
		logging.LogDropped(source, d.Payload, err)
		return
	}

	logging.LogNotification(source, msg.Type().String(), msg.Query().Target().String(), msg.Query().UDN())
	l.handler(msg)
}

func (l *Listener) closeSockets() {
	for _, s := range l.sockets {
		if err := s.conn.Close(); err != nil {
			logging.Debug("Socket close failed", zap.String("interface", s.local.String()), zap.Error(err))
		}
	}
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
