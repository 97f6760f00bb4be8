package discovery

import (
	"fmt"
	"net"

	"github.com/muurk/ssdpmon/internal/ssdp"
)

// Port range tried when a unicast listener is asked for port 0: the IANA
// registered range, skipping well-known and dynamic ports.
const (
	UnusedPortStart = 1024
	UnusedPortEnd   = 49151
)

// LocalIPv4Addrs returns the IPv4 address of every interface that is up.
// With multicastOnly, interfaces without multicast support are skipped.
// Several addresses on one subnet are all returned; nothing is de-duplicated.
func LocalIPv4Addrs(multicastOnly bool) ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, ssdp.Transport("failed to enumerate network interfaces", err)
	}

	var ips []net.IP
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 {
			continue
		}
		if multicastOnly && ifi.Flags&net.FlagMulticast == 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			return nil, ssdp.Transport(fmt.Sprintf("failed to read addresses of %s", ifi.Name), err)
		}
		for _, addr := range addrs {
			if ip := ipv4Of(addr); ip != nil {
				ips = append(ips, ip)
			}
		}
	}

	return ips, nil
}

// ParseIPv4List parses textual addresses, as given on the command line or in
// the config file.
func ParseIPv4List(values []string) ([]net.IP, error) {
	ips := make([]net.IP, 0, len(values))
	for _, v := range values {
		ip := net.ParseIP(v)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("not an IPv4 address: %q", v)
		}
		ips = append(ips, ip.To4())
	}
	return ips, nil
}

// interfaceByIP finds the interface that owns ip.
func interfaceByIP(ip net.IP) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if a := ipv4Of(addr); a != nil && a.Equal(ip) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no interface has address %s", ip)
}

// ipv4ByIndex returns the first IPv4 address of the interface with the given
// index, or nil if it has none.
func ipv4ByIndex(index int) net.IP {
	ifi, err := net.InterfaceByIndex(index)
	if err != nil {
		return nil
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if ip := ipv4Of(addr); ip != nil {
			return ip
		}
	}
	return nil
}

// bindInRange binds the first free UDP port in [start, end] on ip.
func bindInRange(ip net.IP, start, end int) (*net.UDPConn, error) {
	if start < UnusedPortStart || start > UnusedPortEnd {
		return nil, fmt.Errorf("start port %d is not in [%d,%d]", start, UnusedPortStart, UnusedPortEnd)
	}
	if end < UnusedPortStart || end > UnusedPortEnd {
		return nil, fmt.Errorf("end port %d is not in [%d,%d]", end, UnusedPortStart, UnusedPortEnd)
	}

	for port := start; port <= end; port++ {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: port})
		if err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("could not bind to a port within [%d,%d]", start, end)
}

func ipv4Of(addr net.Addr) net.IP {
	var ip net.IP
	switch a := addr.(type) {
	case *net.IPNet:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	}
	if ip == nil {
		return nil
	}
	return ip.To4()
}
