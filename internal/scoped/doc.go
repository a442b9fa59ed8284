// Package scoped provides a concurrent key/value store whose entries live
// only as long as the lifecycle their key is bound to.
//
// Starting a lifecycle allows its keys to be stored; stopping it disposes
// every entry stored under it and under any lifecycle nested inside it.
// All access goes through one reentrant read/write Lock so that callers can
// compose multi-step operations (read a value, bump a counter, write it back)
// under the same hold via Tx.
package scoped
