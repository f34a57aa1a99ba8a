// Package cli implements the taskkeeper command-line client.
//
// Each invocation runs one subcommand (signup, login, logout, list, add,
// done, undo, rm, profile, export) against the API and exits. The session
// saved by login is reused by later invocations.
package cli
