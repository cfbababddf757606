package services_test

import (
	"context"
	"sync"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/models"
)

// recordingBroadcaster captures broadcast messages
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []models.WSMessage
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, models.WSMessage{Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) ofType(msgType string) []models.WSMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.WSMessage
	for _, m := range b.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func testPipeline() bracket.Pipeline {
	return bracket.Pipeline{
		Engine:       bracket.Engine{Strategy: bracket.StrategyCentered, ColumnPitch: 220, XOffset: 40},
		WinnersFrame: bracket.Frame{YOffset: 0, Height: 500},
		LosersFrame:  bracket.Frame{YOffset: 540, Height: 400},
	}
}

func entry(id string) models.ScheduleEntry {
	return models.ScheduleEntry{SetID: id, Round: "Round 1", Players: "A vs B"}
}
