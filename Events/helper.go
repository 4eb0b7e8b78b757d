package events

import (
	"github.com/go-chi/chi/v5"

	Comments "github.com/i-amankitsingh/chai-backend/Events/Comments"
	Likes "github.com/i-amankitsingh/chai-backend/Events/Likes"
	Playlists "github.com/i-amankitsingh/chai-backend/Events/Playlists"
	Search "github.com/i-amankitsingh/chai-backend/Events/Search"
	Subscriptions "github.com/i-amankitsingh/chai-backend/Events/Subscriptions"
	Tweets "github.com/i-amankitsingh/chai-backend/Events/Tweets"
	Videos "github.com/i-amankitsingh/chai-backend/Events/Videos"
)

// Handler mounts every resource router on the API root
func Handler(req chi.Router) {
	req.Route("/videos", Videos.Handle)
	req.Route("/comments", Comments.Handle)
	req.Route("/likes", Likes.Handle)
	req.Route("/playlists", Playlists.Handle)
	req.Route("/tweets", Tweets.Handle)
	req.Route("/channels", Subscriptions.Handle)
	req.Route("/search", Search.Handle)

	// read-only views of another user's public content
	req.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/playlists", Playlists.ListForUser)
		r.Get("/tweets", Tweets.ListForUser)
		r.Get("/subscriptions", Subscriptions.ListSubscribed)
	})
}
