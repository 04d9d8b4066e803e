// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the operations the command line exposes,
// decoupled from any specific entrypoint.
package app
