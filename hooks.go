package collconv

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// ReadUnsupported and InsertRejected run on the decode path.
type Hooks interface {
	// A converter was manufactured for a collection type.
	// strategy ∈ {"array", "constructible", "write-only"}
	StrategySelected(typeName, strategy string)

	// A write-only collection was asked to deserialize.
	ReadUnsupported(typeName string)

	// An element was decoded but the collection refused it
	// (Add returned an error, unhashable set element, fixed array overflow).
	InsertRejected(typeName string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StrategySelected(string, string) {}
func (NopHooks) ReadUnsupported(string)          {}
func (NopHooks) InsertRejected(string, error)    {}
