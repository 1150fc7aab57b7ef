package net

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog"
)

const ServiceType = "_pagemarkup._tcp"

// Advertise announces a server on port under the given instance name, or
// the host name when instance is empty. Call Shutdown on the result to
// withdraw the announcement.
func Advertise(instance string, port int, log zerolog.Logger) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	var ips []net.IP
	if ip := net.ParseIP(OutgoingIP(log)); ip != nil && !ip.IsLoopback() {
		ips = []net.IP{ip}
	}
	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, ips, []string{"PageMarkup", "path=" + Path})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service, Logger: mdnsLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Info().Str("instance", instance).Int("port", port).Msg("advertising over mDNS")
	return server, nil
}

// Browse reports the websocket URL of every server that answers within
// timeout.
func Browse(ctx context.Context, timeout time.Duration, log zerolog.Logger, found func(url string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(URL(e.AddrV4.String(), e.Port))
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	params.Logger = mdnsLogger(log)
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	return err
}

// debugWriter writes each line of the mDNS library's log as a debug entry.
type debugWriter struct {
	log zerolog.Logger
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.log.Debug().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}

func mdnsLogger(log zerolog.Logger) *stdlog.Logger {
	return stdlog.New(debugWriter{log: log.With().Str("component", "mdns").Logger()}, "", 0)
}
