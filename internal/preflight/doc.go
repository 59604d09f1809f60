// Package preflight verifies the local environment before network work:
// directory access, free staging space, and backend reachability.
package preflight
