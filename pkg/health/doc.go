// Package health serves liveness and readiness probes.
// Readiness runs every registered check concurrently under a shared timeout.
package health
