package hal

// CommandEncoderDescriptor describes a command encoder to create from a pool.
type CommandEncoderDescriptor struct {
	Label string
}

// QuerySetDescriptor describes a query set to allocate (4.G timer manager:
// one query set per frame slot, sized for the maximum concurrent profiling
// scopes the graph declares).
type QuerySetDescriptor struct {
	Label string
	Kind  QueryKind
	Count uint32
}
