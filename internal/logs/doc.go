// Package logs reads the application log file for the `noxsub logs` command:
// trailing lines plus a polling follow mode.
package logs
