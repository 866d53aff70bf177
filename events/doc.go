// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes poll store activity to external subscribers.

Handlers publish after a mutation has been accepted. Publishing is best
effort: a failure is logged and never turns a successful vote into an error.

# Publishers

  - Nop: discards events (default when nothing is configured)
  - AMQPPublisher: durable RabbitMQ queue (RABBITMQ_URL, RABBITMQ_QUEUE)
  - RedisPublisher: Redis pub/sub channel (REDIS_URL, REDIS_CHANNEL)
  - Multi: fans out to several publishers

# Wire Format

Every event is JSON:

	{"type":"vote_cast","poll_id":0,"voter":"0xabc...","option_index":1,"at":"2025-06-01T12:00:00Z"}

Types are poll_created, vote_cast and poll_closed.
*/
package events
