// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - auth: rejects requests that lack the configured X-API-Key.
//   - rayid: assigns each request a ray id, stored in the "ray_id" local and
//     echoed in the X-Ray-ID response header. logger.WithRayID reads it back.
//
// rayid must be registered first so rejected requests are traced too.
package middleware
