/*
Package ports defines the driven ports (interfaces) of the launcher.

These interfaces decouple resolution and supervision from concrete storage,
coordination and source formats.

# Key Interfaces

  - SourceLoader: loads included launch descriptions (YAML files, in-memory registrations).
  - RunStore: persists launch runs (memory, Redis, SQLite).
  - NamespaceLocker: grants exclusive namespace leases (memory, Redis).
*/
package ports
