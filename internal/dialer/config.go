package dialer

import (
	"net"
	"time"
)

// Config is shared by every dialer. A zero DialTimeout means no timeout.
type Config struct {
	DialTimeout time.Duration
	KeepAlive   net.KeepAliveConfig
}
