// Package auth implements account registration, login, email verification,
// avatar upload, and the authentication gate used by protected routes.
//
// Users move from unregistered to registered-unverified on Register and to
// verified on VerifyEmail. Sessions are stateless HMAC-signed JWTs whose
// subject is the user's email.
package auth
