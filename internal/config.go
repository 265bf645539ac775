package internal

import (
	"fmt"
	"time"
)

type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=localhost"`
	GrpcPort             int           `env:"GRPC_PORT,default=8080"`
	HttpPort             int           `env:"HTTP_PORT,default=8081"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=2s"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=5s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	AuthSecret           string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
}

// Validate rejects values the environment parser accepts but the server cannot run with.
func (c Config) Validate() error {
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", c.HeartbeatInterval)
	}
	if c.ConnectionBufferSize < 1 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be at least 1, got %d", c.ConnectionBufferSize)
	}
	if len(c.AuthSecret) < 16 {
		return fmt.Errorf("AUTH_SECRET must be at least 16 characters")
	}
	return nil
}

func (c Config) GrpcAddress() string { return fmt.Sprintf("%s:%d", c.Host, c.GrpcPort) }

func (c Config) HttpAddress() string { return fmt.Sprintf("%s:%d", c.Host, c.HttpPort) }
