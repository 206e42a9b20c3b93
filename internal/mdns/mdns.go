// Package mdns advertises the node's hostname on the local network.
package mdns

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/pion/mdns/v2"
	"golang.org/x/net/ipv4"
)

// ErrInvalidHostname is returned for names that are not a single DNS label.
var ErrInvalidHostname = errors.New("invalid hostname")

const maxLabelLength = 63

// Advertiser answers multicast DNS queries for <hostname>.local.
type Advertiser struct {
	conn   *mdns.Conn
	name   string
	logger *slog.Logger
}

// LocalName normalizes hostname to its .local form.
func LocalName(hostname string) (string, error) {
	label := strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(hostname, "."), ".local"))
	if err := validateLabel(label); err != nil {
		return "", err
	}
	return label + ".local", nil
}

func validateLabel(label string) error {
	if label == "" || len(label) > maxLabelLength {
		return fmt.Errorf("%w: %q must be 1-%d characters", ErrInvalidHostname, label, maxLabelLength)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("%w: %q starts or ends with a hyphen", ErrInvalidHostname, label)
	}
	for _, r := range label {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidHostname, label, r)
		}
	}
	return nil
}

// Start joins the IPv4 mDNS group and begins answering for hostname.
func Start(hostname string, logger *slog.Logger) (*Advertiser, error) {
	name, err := LocalName(hostname)
	if err != nil {
		return nil, err
	}

	addr, err := net.ResolveUDPAddr("udp4", mdns.DefaultAddressIPv4)
	if err != nil {
		return nil, fmt.Errorf("resolve mdns group: %w", err)
	}
	l, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", mdns.DefaultAddressIPv4, err)
	}

	conn, err := mdns.Server(ipv4.NewPacketConn(l), nil, &mdns.Config{
		LocalNames: []string{name},
	})
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("start mdns responder: %w", err)
	}

	logger.Info("mDNS advertisement started", "name", name)
	return &Advertiser{conn: conn, name: name, logger: logger}, nil
}

// Name returns the advertised name.
func (a *Advertiser) Name() string {
	return a.name
}

// Close stops answering queries.
func (a *Advertiser) Close() error {
	a.logger.Info("mDNS advertisement stopped", "name", a.name)
	return a.conn.Close()
}
