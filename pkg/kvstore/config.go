package kvstore

// Config toggles the two behaviors spec.md §9 leaves as explicit Open
// Questions rather than silently picking one reading. Both default to the
// safer, more conservative reading spec.md recommends; a caller that knows
// its downstream snapshot-isolation logic wants the other reading can flip
// them.
type Config struct {
	// StrictLeafROOverride controls an own node both of whose children
	// are non-own (foreign or Nil): such a node has no descendant to
	// inherit subtree_ro_dependent from. When false (default), it keeps
	// the value the post-order walk already computed for it. When true,
	// it is forced to subtree_ro_dependent=false instead.
	StrictLeafROOverride bool

	// AbsentSSVIsOwnValue controls Node.nsv when subtreeRODependent is
	// true but ssv was never set. When true (default), nsv falls back to
	// the node's own value. When false, nsv is left undefined (nil).
	AbsentSSVIsOwnValue bool
}

// DefaultConfig returns the Config spec.md §9 recommends as the safe
// default for both open questions.
func DefaultConfig() *Config {
	return &Config{
		StrictLeafROOverride: false,
		AbsentSSVIsOwnValue:  true,
	}
}
