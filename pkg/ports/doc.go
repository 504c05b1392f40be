/*
Package ports defines the driven ports (interfaces) of the Content Machine framework service.

These interfaces decouple the service from external implementations, allowing the
template library to live in memory, on disk, in Redis or in SQLite.

# Key Interfaces

  - FrameworkStore: Durable holder of the current framework (load and atomic persist).
  - DistributedLocker: Extends the service's mutation lock across replicas.
  - FrameworkReader: Read-only view consumed by the Script Composer.
*/
package ports
