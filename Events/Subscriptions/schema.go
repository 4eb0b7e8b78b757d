package subscriptions

import "time"

type Subscription struct {
	SubscriptionID string    `db:"subscription_id" json:"subscription_id"`
	Subscriber     string    `db:"subscriber" json:"subscriber"`
	Channel        string    `db:"channel" json:"channel"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
