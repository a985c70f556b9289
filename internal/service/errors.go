package service

import "errors"

// ErrUpstreamFailure indicates that an external collaborator, such as the
// image host, failed. The API layer maps it to 502 Bad Gateway.
var ErrUpstreamFailure = errors.New("upstream service failure")
