// Package task runs short background jobs on a fixed pool of workers fed by a
// bounded in-memory queue. It keeps slow side effects, such as sending
// verification mail, off the request path.
package task
