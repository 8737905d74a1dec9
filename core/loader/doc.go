// Package loader registers API features on a Fiber router.
//
// A feature reports its name and whether it can run, and mounts its own routes in
// Load. The serve command registers the inventory feature and calls LoadAll once;
// disabled features are skipped and the first Load error aborts startup.
package loader
