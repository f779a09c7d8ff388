// Package services holds the console's stateful application services: the
// session store that owns authentication state, the persisted token store it
// writes through, and the cached entity repositories for users and projects.
package services
