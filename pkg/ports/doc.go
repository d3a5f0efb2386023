/*
Package ports defines the driven ports (interfaces) of the guide.

These interfaces decouple the core from storage backends, so the same State
can live in memory, in local files, in Redis or in a Loam repository.

# Key Interfaces

  - Store: key/value persistence for the State blob, the admin secret and walks.
  - Lister: optional key enumeration, used to list saved walks.
  - Watchable: optional change feed, used to reload the committed State.
  - DistributedLocker: distributed locking for concurrent walk access.
*/
package ports
