package common

import (
	"context"
	"time"
)

// ProducerMessage is a message handed to the event producer.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

// Message is a consumed message delivered to a MessageHandler.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MessageHandler processes one consumed message. A non-nil error triggers
// the consumer's retry policy.
type MessageHandler func(ctx context.Context, msg *Message) error

//Personal.AI order the ending
