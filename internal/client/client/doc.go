// Package client talks to the taskkeeper JSON API on behalf of the CLI.
//
// APIClient attaches the saved access token to every protected call. When the
// server answers 401 and a refresh token is on file, the client rotates the
// token pair once, persists it through the SessionStore and retries the call.
//
// Errors
//
//   - ErrUnavailable: the server could not be reached.
//   - ErrNotLoggedIn: no session is stored.
//   - *APIError: the server answered with a non-2xx status; it matches
//     ErrUnauthorized for 401 and ErrNotFound for 404 under errors.Is.
package client
