/*
Package framework implements the service that owns the current template framework.

It validates and normalizes save payloads, serializes every mutation through a single
exclusive critical section (optionally extended across replicas by a distributed locker),
lazily initializes the store from the default framework on first access, and restores
the default on reset. Callers never observe a missing category key.
*/
package framework
