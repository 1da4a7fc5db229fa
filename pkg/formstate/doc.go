// Package formstate is the pure state engine behind entity editors. A value
// tree (map[string]any, []any and scalars, as produced by encoding/json) is
// never mutated: every operation returns a new root in which only the
// containers on the edited path are copied and all other subtrees are shared.
//
// Operations never fail. A path that cannot be resolved leaves the tree
// unchanged, and GetValue reports absence instead of erroring. A key holding
// nil and a missing key are distinct states; only the sanitize package treats
// them alike.
package formstate
