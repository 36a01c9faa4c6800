package tir

// CallEffectKind classifies the side effects of calls to an operator. It is the
// contract the optimizer reads (through AttrCallEffectKind) to decide whether a
// call may be reordered, eliminated as dead code, or duplicated.
type CallEffectKind int

const (
	// EffectPure calls have no side effects: they may be reordered freely,
	// deduplicated, and removed when their result is unused.
	EffectPure CallEffectKind = iota

	// EffectReadState calls read global state but do not change it: they may be
	// reordered against pure calls but not across state updates.
	EffectReadState

	// EffectUpdateState calls update global state and must keep their relative
	// order against reads and other updates.
	EffectUpdateState

	// EffectOpaque calls may have arbitrary, unmodeled side effects: they read
	// and/or write memory, may communicate with other execution units, and may
	// block. They must never be reordered across other opaque calls, eliminated,
	// or duplicated, and their argument evaluation order must be preserved.
	EffectOpaque
)

// String implements fmt.Stringer.
func (k CallEffectKind) String() string {
	switch k {
	case EffectPure:
		return "Pure"
	case EffectReadState:
		return "ReadState"
	case EffectUpdateState:
		return "UpdateState"
	case EffectOpaque:
		return "Opaque"
	}
	return "UnknownCallEffectKind"
}

// Pure reports whether calls with this effect kind may be removed as dead code.
func (k CallEffectKind) Pure() bool { return k == EffectPure }

// Opaque reports whether calls with this effect kind act as scheduling barriers
// for the optimizer.
func (k CallEffectKind) Opaque() bool { return k == EffectOpaque }
