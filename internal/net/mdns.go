package net

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service advertised by the sketch server.
const ServiceType = "_localsketch._tcp"

// Service is a sketch server found on the local network.
type Service struct {
	Instance string
	Addr     string
	Info     []string
}

// URL returns the http address of the service.
func (s Service) URL() string { return "http://" + s.Addr + "/" }

// Advertise announces a server listening on port. Shut the returned server
// down to withdraw the announcement.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"LocalSketch"}
	}

	service, err := mdns.NewMDNSService(
		host,        // instance name
		ServiceType, // service type
		"",          // domain, ".local" when empty
		"",          // host name, the OS host name when empty
		port,
		[]net.IP{firstIPv4()},
		info,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse queries the network for sketch servers for up to timeout and calls
// found for every IPv4 answer.
func Browse(timeout time.Duration, found func(Service)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Service{
				Instance: instanceName(e.Name),
				Addr:     net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)),
				Info:     e.InfoFields,
			})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return err
}

// instanceName strips the service suffix from a full DNS-SD name.
func instanceName(full string) string {
	if i := strings.Index(full, "."+ServiceType); i > 0 {
		return strings.ReplaceAll(full[:i], `\ `, " ")
	}
	return full
}

// firstIPv4 returns the first non-loopback IPv4 address of an interface that
// is up, or 127.0.0.1.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
