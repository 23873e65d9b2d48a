package utils

import (
	"fmt"
	"net"
	"time"
)

// PingHostPort checks that a TCP service is reachable at host:port.
// Used by the healthcheck probe for the SMTP relay.
func PingHostPort(host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}
