// Package syncer keeps this device's session records consistent with the
// remote record service across an unreliable link.
//
// Four pieces compose into the engine:
//
//   - Machine holds the single process-wide sync status and publishes
//     typed updates to subscribers.
//   - Queue owns the list of uncommitted local changes, deduplicated per
//     session id and persisted through the local durable store.
//   - Resolver decides, for one pending change against the live remote
//     record, whether to create, push, merge, or yield to the cloud copy.
//   - Orchestrator is the public API: fetch, save, delete, and queue
//     replay, converting network failures into queue state rather than
//     surfacing them as errors.
//
// The engine only ever reconciles two replicas: the local cache and the
// remote authoritative store. Queue replay is strictly sequential so that
// no two resolutions race on the same session.
package syncer
