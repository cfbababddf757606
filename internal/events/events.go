// Package events publishes refresh notifications to external consumers.
package events

import "context"

// TopicBracketRefreshed is published after every bracket refresh cycle
const TopicBracketRefreshed = "bracketview.bracket.refreshed"

// BracketRefreshed describes one completed refresh cycle
type BracketRefreshed struct {
	SnapshotID string `json:"snapshot_id"`
	Generation uint64 `json:"generation"`
	Source     string `json:"source"`
	Records    int    `json:"records"`
	Pools      int    `json:"pools"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
