package client

import (
	"errors"
	"net"
	"time"
)

// errConnRotated reports a connection that aged past its lifetime cap. The
// redial transport re-dials on it without burning a retry attempt.
var errConnRotated = errors.New("connection exceeded max lifetime")

// agingConn enforces a maximum lifetime on a pooled connection. Once the
// deadline passes, the next read or write closes the connection and fails
// with errConnRotated, which makes the transport dial anew (and re-resolve
// DNS, picking up collaborator pods started since the original dial).
type agingConn struct {
	net.Conn
	expiresAt time.Time
}

func newAgingConn(conn net.Conn, maxLifetime time.Duration) *agingConn {
	return &agingConn{Conn: conn, expiresAt: time.Now().Add(maxLifetime)}
}

func (c *agingConn) expired() bool {
	return !time.Now().Before(c.expiresAt)
}

func (c *agingConn) Read(b []byte) (int, error) {
	if c.expired() {
		_ = c.Close()
		return 0, errConnRotated
	}
	return c.Conn.Read(b)
}

func (c *agingConn) Write(b []byte) (int, error) {
	if c.expired() {
		_ = c.Close()
		return 0, errConnRotated
	}
	return c.Conn.Write(b)
}
