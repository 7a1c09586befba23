// Package store executes parameterized statements against SQLite.
//
// Store implements Executor, the boundary between the query facade and the
// database driver. Statements arrive fully built from package sqlbuild and
// are bound with named arguments; no SQL text is assembled here.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The handle is treated as shared. No retries or timeouts are added here;
// callers control them through the context and the driver.
package store
