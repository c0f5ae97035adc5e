// Package app wires the engine together: it resolves the runs to perform from
// the CLI configuration and optional run files, executes them with bounded
// parallelism, records outcomes in the ledger, reports them, and publishes
// them to any configured endpoints.
package app
