/*
Package session persists end-user walks so a walk can be resumed later.

Operations on one session ID are serialized in process, and optionally across
replicas through a ports.DistributedLocker.
*/
package session
