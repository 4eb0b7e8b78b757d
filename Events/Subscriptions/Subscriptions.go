package subscriptions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

var subscriberChannel = Mdb.Relation{
	Table:    "subscriptions",
	IDColumn: "subscription_id",
	Columns:  []string{"subscriber", "channel"},
}

func Handle(req chi.Router) {
	req.Post("/{channelID}/subscribe", Toggle)
	req.Get("/{channelID}/subscribers", ListSubscribers)
}

// Toggle subscribes the acting user to a channel, or unsubscribes them if
// they already are
func Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, auth := Auth.GetClaims(r)
	if !auth {
		Utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	channelID := chi.URLParam(r, "channelID")
	if !Utils.ValidUUID(channelID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid channel ID")
		return
	}

	created, err := Mdb.ToggleRelation(ctx, Mdb.DB, subscriberChannel, uuid.New().String(), claims.UID, channelID)
	if err != nil {
		Utils.SendAppError(w, Mdb.ClassifyError(err, "Toggle: failed to toggle subscription"), "Failed to toggle subscription")
		return
	}

	if created {
		Utils.SendSuccessResponse(w, map[string]interface{}{"subscribed": true}, "You subscribed this channel!")
		return
	}
	Utils.SendSuccessResponse(w, map[string]interface{}{"subscribed": false}, "You unsubscribed this channel!")
}

// ListSubscribers returns the subscriber list of a channel
func ListSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")
	if !Utils.ValidUUID(channelID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid channel ID")
		return
	}

	subscribers, err := querySubscriptions(r, "channel", channelID)
	if err != nil {
		Utils.SendAppError(w, err, "Failed to fetch subscribers")
		return
	}

	Utils.SendSuccessResponse(w, map[string]interface{}{
		"subscriberCount": len(subscribers),
		"subscribers":     subscribers,
	}, "Subscribers fetched successfully")
}

// ListSubscribed returns the channels a user has subscribed to
func ListSubscribed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !Utils.ValidUUID(userID) {
		Utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	channels, err := querySubscriptions(r, "subscriber", userID)
	if err != nil {
		Utils.SendAppError(w, err, "Failed to fetch subscribed channels")
		return
	}

	Utils.SendSuccessResponse(w, channels, "Subscribed channel data fetched successfully")
}

func querySubscriptions(r *http.Request, column, value string) ([]Subscription, error) {
	ctx := r.Context()

	rows, err := Mdb.DB.Query(ctx,
		"SELECT subscription_id, subscriber, channel, created_at FROM subscriptions WHERE "+column+" = $1 ORDER BY created_at DESC",
		value,
	)
	if err != nil {
		return nil, Mdb.ClassifyError(err, "querySubscriptions: failed to query subscriptions")
	}
	defer rows.Close()

	subs := []Subscription{}
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.SubscriptionID, &s.Subscriber, &s.Channel, &s.CreatedAt); err != nil {
			return nil, Mdb.ClassifyError(err, "querySubscriptions: failed to scan subscription")
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, Mdb.ClassifyError(err, "querySubscriptions: failed to iterate subscriptions")
	}

	return subs, nil
}
