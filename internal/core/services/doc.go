// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the network or the database directly; every
// I/O effect goes through a driven port.
package services
