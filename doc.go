// Package latchtree implements a concurrent, in-memory B+Tree index over
// int32 keys and values. Readers and writers crab hand-over-hand down the
// tree using per-node latches; inserts and deletes first try an optimistic
// pass that only exclusively latches the leaf doing the work, falling back
// to a pessimistic pass that holds exclusive latches from the root down
// whenever an ancestor is not provably safe against the in-flight split
// or merge.
package latchtree
