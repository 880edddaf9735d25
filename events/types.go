// SPDX-License-Identifier: GPL-3.0-only

package events

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys on the platform event exchange.
const (
	RouteSignup    = "auth.signup"
	RouteLogin     = "auth.login"
	RouteRedeemed  = "key.redeemed"
	RouteHeartbeat = "session.heartbeat"
)

// Event is the JSON payload published for every analytics-relevant action.
type Event struct {
	EID       string    `json:"eid"`
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	KeyPrefix *string   `json:"key_prefix,omitempty"`
	KeyCode   *string   `json:"key_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Publisher struct {
	Exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
}
