// Package redis opens go-redis clients for the session store and exposes
// health and shutdown hooks for the application lifecycle.
package redis
