// Package scheduler runs a caller-supplied Processor over a resolved
// project with a pool of workers. An element is handed to a worker once
// everything staged for its build has been processed successfully.
package scheduler
