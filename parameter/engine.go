package parameter

import "time"

// Host loop timing
const (
	// FrameUpdateInterval is the rendering frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// TickInterval is the host logic tick; deferred crossings resolve on tick boundaries
	TickInterval = 50 * time.Millisecond
)

// Event queue
const (
	// EventQueueSize is the default capacity of an event ring buffer, must be a power of two
	EventQueueSize = 1024
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "maze-chain.log"
	MaxLogSize  = 10 * 1024 * 1024
)

// Feed
const (
	// DefaultFeedAddr is the listen address of the spectator feed
	DefaultFeedAddr = "127.0.0.1:8089"

	// FeedSendBuffer is the per-client outbound message buffer
	FeedSendBuffer = 64

	// FeedWriteTimeout bounds a single websocket write
	FeedWriteTimeout = 5 * time.Second

	// FeedPingInterval keeps idle connections alive through proxies
	FeedPingInterval = 30 * time.Second
)

// Config sources
const (
	ConfigEnvPrefix = "MAZE_CHAIN_"
	DefaultEnvFile  = ".env"
)
