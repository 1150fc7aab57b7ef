package net

import (
	"net"

	"github.com/rs/zerolog"
)

// OutgoingIP returns the address this machine uses to reach other hosts,
// which is what clients on the LAN should dial. No packet is sent.
func OutgoingIP(log zerolog.Logger) string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback(log).String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// localIPFallback scans the interfaces on networks without a default
// route. It returns the first IPv4 address of an interface that is up and
// not a loopback, or 127.0.0.1.
func localIPFallback(log zerolog.Logger) net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn().Err(err).Msg("listing interfaces")
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return ipnet.IP.To4()
			}
		}
	}
	log.Warn().Msg("no LAN address found, advertising loopback")
	return net.IPv4(127, 0, 0, 1)
}
