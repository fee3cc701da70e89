// Package worker implements durable background job processing for email
// notifications. Jobs are persisted before execution, processed by a small
// worker pool, retried a bounded number of times on failure, and recovered
// across process restarts.
package worker
