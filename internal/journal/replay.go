package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
)

// Replay is the state rebuilt from a journal: the latest event per order key.
type Replay struct {
	Applied int
	Skipped int
	Last    map[string]Event
	lastSeq map[string]int64
}

func newReplay() *Replay {
	return &Replay{Last: map[string]Event{}, lastSeq: map[string]int64{}}
}

// apply keeps an event unless an event with the same or a higher seq was
// already seen for its key. Duplicates from a retried publish are skipped.
func (r *Replay) apply(e Event) bool {
	if last, ok := r.lastSeq[e.Key]; ok && e.Seq <= last {
		r.Skipped++
		return false
	}
	r.lastSeq[e.Key] = e.Seq
	r.Last[e.Key] = e
	r.Applied++
	return true
}

// Downloaded returns the keys whose latest outcome is a saved file.
func (r *Replay) Downloaded() map[string]Event {
	out := map[string]Event{}
	for k, e := range r.Last {
		if e.Outcome == Downloaded {
			out[k] = e
		}
	}
	return out
}

// Tally counts the latest outcome of every key.
func (r *Replay) Tally() map[Outcome]int {
	out := map[Outcome]int{}
	for _, e := range r.Last {
		out[e.Outcome]++
	}
	return out
}

// ReplayFile reads a JSONL journal. A missing file is an empty journal.
func ReplayFile(path string) (*Replay, error) {
	r := newReplay()
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("unmarshal line %d: %w", lineNum, err)
		}
		r.apply(e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return r, nil
}

// ReplayKafka consumes the events of one run from a topic (partition 0) until
// no message arrives for idle.
func ReplayKafka(ctx context.Context, brokers []string, topic, runID string, idle time.Duration) (*Replay, error) {
	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer rd.Close()

	r := newReplay()
	for {
		rctx, cancel := context.WithTimeout(ctx, idle)
		m, err := rd.ReadMessage(rctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return r, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return r, nil
			}
			return r, fmt.Errorf("read kafka: %w", err)
		}
		var e Event
		if err := json.Unmarshal(m.Value, &e); err != nil {
			return r, fmt.Errorf("unmarshal event: %w", err)
		}
		if runID != "" && e.RunID != runID {
			continue
		}
		r.apply(e)
	}
}
