package repository

// Subscription is the handle returned by a live query. Cancel stops snapshot
// delivery; it is safe to call more than once and from any goroutine.
type Subscription interface {
	Cancel()
}
