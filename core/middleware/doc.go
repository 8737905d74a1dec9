// Package middleware groups the Fiber middleware used by the serve command.
//
//   - rayid tags every request with an X-Ray-ID, reusing one sent by a proxy.
//   - auth requires X-API-Key on every route registered after it. An empty key
//     disables the check.
//
// serve registers rayid first and auth after the public /metrics route.
package middleware
