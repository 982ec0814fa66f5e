package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topics          []string
	AutoOffsetReset string
	MaxWait         time.Duration
	HandlerTimeout  time.Duration
	RetryConfig     RetryConfig
}

// ConsumerMetrics holds consumer metrics.
type ConsumerMetrics struct {
	MessagesConsumed     atomic.Int64
	MessagesProcessed    atomic.Int64
	MessagesFailed       atomic.Int64
	MessagesRetried      atomic.Int64
	MessagesDeadLettered atomic.Int64
	LastConsumedAt       atomic.Value // time.Time
	Lag                  atomic.Int64
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.ReaderStats
}

// MessagePublisher is the dead-letter sink; *Producer satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
	Close() error
}

// Consumer dispatches messages to per-topic handlers, retrying failures
// with exponential backoff before dead-lettering them.
type Consumer struct {
	reader ReaderInterface
	config ConsumerConfig
	logger logging.Logger

	handlers map[string]common.MessageHandler
	mu       sync.RWMutex

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deadLetter MessagePublisher
	metrics    *ConsumerMetrics
}

// NewConsumer creates a Consumer reading cfg.Topics as part of cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    cfg.Topics,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        cfg.MaxWait,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}

	var dl MessagePublisher
	if cfg.RetryConfig.DeadLetterTopic != "" {
		p, err := NewProducer(ProducerConfig{Brokers: cfg.Brokers, Source: cfg.GroupID}, logger)
		if err != nil {
			return nil, err
		}
		dl = p
	}
	return NewConsumerWithReader(kafka.NewReader(readerCfg), cfg, logger, dl), nil
}

// NewConsumerWithReader wires a Consumer around an existing reader. deadLetter
// may be nil, in which case exhausted messages are dropped after logging.
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, logger logging.Logger, deadLetter MessagePublisher) *Consumer {
	return &Consumer{
		reader:     r,
		config:     cfg,
		logger:     logger,
		handlers:   make(map[string]common.MessageHandler),
		deadLetter: deadLetter,
		metrics:    &ConsumerMetrics{},
	}
}

// Subscribe registers handler for topic.
func (c *Consumer) Subscribe(topic string, handler common.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("subscribed to topic", logging.String("topic", topic))
}

// Start starts the consumer loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)

	go c.consumeLoop(ctx)

	c.logger.Info("kafka consumer started", logging.String("group", c.config.GroupID))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch message failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.metrics.MessagesConsumed.Add(1)
		c.metrics.LastConsumedAt.Store(time.Now())
		c.metrics.Lag.Store(m.HighWaterMark - m.Offset)

		msg := fromKafkaMessage(m)

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.logger.Warn("no handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err != nil {
			// Only context cancellation reaches here; leave the offset
			// uncommitted so the message is redelivered.
			return
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed", logging.Err(err), logging.String("topic", m.Topic))
		}
	}
}

// processMessage runs handler with retries. It returns an error only when ctx
// is cancelled; exhausted messages are dead-lettered or dropped.
func (c *Consumer) processMessage(ctx context.Context, msg *common.Message, handler common.MessageHandler) error {
	err := c.invoke(ctx, msg, handler)
	if err == nil {
		c.metrics.MessagesProcessed.Add(1)
		return nil
	}

	maxRetries := c.config.RetryConfig.MaxRetries
	backoff := c.config.RetryConfig.RetryBackoff
	if backoff == 0 {
		backoff = time.Second
	}
	maxBackoff := c.config.RetryConfig.MaxRetryBackoff
	if maxBackoff == 0 {
		maxBackoff = 30 * time.Second
	}

	for i := 0; i < maxRetries; i++ {
		c.metrics.MessagesRetried.Add(1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if err = c.invoke(ctx, msg, handler); err == nil {
			c.metrics.MessagesProcessed.Add(1)
			return nil
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	c.metrics.MessagesFailed.Add(1)
	c.logger.Error("message processing failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(err))

	if c.deadLetter == nil || c.config.RetryConfig.DeadLetterTopic == "" {
		return nil
	}

	headers := make(map[string]string, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["original_topic"] = msg.Topic
	headers["error_message"] = err.Error()

	dlMsg := &common.ProducerMessage{
		Topic:   c.config.RetryConfig.DeadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	if dlErr := c.deadLetter.Publish(ctx, dlMsg); dlErr != nil {
		c.logger.Error("dead letter publish failed", logging.Err(dlErr))
		return nil
	}
	c.metrics.MessagesDeadLettered.Add(1)
	return nil
}

func (c *Consumer) invoke(ctx context.Context, msg *common.Message, handler common.MessageHandler) error {
	if c.config.HandlerTimeout <= 0 {
		return handler(ctx, msg)
	}
	hctx, cancel := context.WithTimeout(ctx, c.config.HandlerTimeout)
	defer cancel()
	return handler(hctx, msg)
}

func fromKafkaMessage(m kafka.Message) *common.Message {
	msg := &common.Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// GetMetrics returns a snapshot of metrics.
func (c *Consumer) GetMetrics() *ConsumerMetrics {
	m := new(ConsumerMetrics)
	m.MessagesConsumed.Store(c.metrics.MessagesConsumed.Load())
	m.MessagesProcessed.Store(c.metrics.MessagesProcessed.Load())
	m.MessagesFailed.Store(c.metrics.MessagesFailed.Load())
	m.MessagesRetried.Store(c.metrics.MessagesRetried.Load())
	m.MessagesDeadLettered.Store(c.metrics.MessagesDeadLettered.Load())
	m.Lag.Store(c.metrics.Lag.Load())
	if v := c.metrics.LastConsumedAt.Load(); v != nil {
		m.LastConsumedAt.Store(v)
	}
	return m
}

// Close stops the loop and releases the reader and dead-letter producer.
func (c *Consumer) Close() error {
	if c.running.CompareAndSwap(true, false) {
		if c.cancel != nil {
			c.cancel()
		}
		c.wg.Wait()
	}

	var firstErr error
	if c.reader != nil {
		firstErr = c.reader.Close()
	}
	if c.deadLetter != nil {
		if err := c.deadLetter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.logger.Info("kafka consumer closed",
		logging.Int64("consumed", c.metrics.MessagesConsumed.Load()))
	return firstErr
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if len(cfg.Topics) == 0 {
		return errors.New(errors.ErrCodeValidation, "at least one topic required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.New(errors.ErrCodeValidation, "invalid auto offset reset")
	}
	if cfg.RetryConfig.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max retries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
