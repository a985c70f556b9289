// Package api translates HTTP requests into calls on the auth and contact
// services and their results into JSON responses. It is the only layer that
// knows about status codes: services return sentinel errors and
// MapErrorToStatusCode turns them into 401, 404, 409, 422 or 502.
package api
