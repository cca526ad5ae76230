// Package manifest publishes the summary of a finished run.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/kafka-go"

	"blorders/internal/journal"
)

const FileName = "run.json"

type Manifest struct {
	RunID       string   `json:"runId"`
	CSV         string   `json:"csv"`
	RunRoot     string   `json:"runRoot"`
	Download    bool     `json:"download"`
	StartedAt   int64    `json:"startedAt"`
	FinishedAt  int64    `json:"finishedAt"`
	Orders      int      `json:"orders"`
	Resolved    int      `json:"resolved"`
	Downloaded  int      `json:"downloaded"`
	Missing     []string `json:"missing"`
	SkippedRows int      `json:"skippedRows"`
}

type Publisher interface {
	Publish(m Manifest) error
}

// MultiPublisher writes to multiple publishers sequentially.
type MultiPublisherImpl struct {
	pubs []Publisher
}

func MultiPublisher(pubs ...Publisher) Publisher {
	return &MultiPublisherImpl{pubs: pubs}
}

func (m *MultiPublisherImpl) Publish(man Manifest) error {
	for _, p := range m.pubs {
		if err := p.Publish(man); err != nil {
			return err
		}
	}
	return nil
}

type Reader interface {
	Read() (Manifest, error)
}

// FilesystemManifest keeps run.json in a run's log directory.
type FilesystemManifest struct {
	baseDir string
}

func NewFilesystemManifest(baseDir string) *FilesystemManifest {
	return &FilesystemManifest{baseDir: baseDir}
}

func (f *FilesystemManifest) Publish(m Manifest) error {
	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	file := filepath.Join(f.baseDir, FileName)
	out, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (f *FilesystemManifest) Read() (Manifest, error) {
	file := filepath.Join(f.baseDir, FileName)
	data, err := os.ReadFile(file)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, nil
}

// KafkaManifest publishes run manifests keyed by run id, suited to a compacted topic.
type KafkaManifest struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaManifest creates a Kafka manifest publisher.
// bootstrap can be comma-separated brokers.
func NewKafkaManifest(bootstrap string, topic string) *KafkaManifest {
	return &KafkaManifest{writer: &kafka.Writer{
		Addr:         kafka.TCP(journal.SplitBrokers(bootstrap)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

func (k *KafkaManifest) Publish(m Manifest) error {
	b, err := json.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(context.Background(), kafka.Message{Key: []byte(m.RunID), Value: b})
}

func (k *KafkaManifest) Close() error {
	if c, ok := k.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// NewKafkaManifestWith is only for tests to inject a fake writer.
func NewKafkaManifestWith(w kafkaMessageWriter) *KafkaManifest {
	return &KafkaManifest{writer: w}
}
