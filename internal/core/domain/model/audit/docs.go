// Package audit implements the append-only trail of split plan transitions.
//
// Each Event records one accepted mutation: its type (a closed vocabulary),
// the plan it belongs to and a canonical JSON body snapshotting the
// transition. Events are the source of truth for what happened; the plan's
// stored fields are a projection that Replay can rebuild and compare.
//
// Events are never updated or deleted individually. They are removed only
// when their split plan is deleted.
package audit
