package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize bounds events waiting for the fan-out loop
	BroadcastBufferSize = 256

	// ClientEventBuffer bounds undelivered events per client; a slow client
	// loses events past this point instead of stalling the hub
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 16
)

// Stream settings
const (
	// KeepaliveInterval is how often an idle stream gets a comment line
	KeepaliveInterval = 25 * time.Second

	// ClientRetry is the reconnect delay suggested to browsers
	ClientRetry = 3 * time.Second

	// MaxFilterTypes caps the ?types= list
	MaxFilterTypes = 8
)

// Event types streamed to clients
const (
	EventTypeQuestCompleted      = "quest.completed"
	EventTypeAchievementUnlocked = "achievement.unlocked"
	EventTypeLeaderboardUpdated  = "leaderboard.updated"

	// EventTypeConnected is the first message on every stream
	EventTypeConnected = "connected"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgEncodeError        = "Failed to encode SSE event"
)

// ErrMsgStreamingUnsupported is returned when the response cannot be flushed
const ErrMsgStreamingUnsupported = "streaming unsupported"
