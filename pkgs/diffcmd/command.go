package diffcmd

// CommandKind identifies which of the seven diff-stream element shapes a
// given element is. The numeric order below is part of the wire contract
// (spec §4.1/§6.2): a host codec that tags unions positionally uses exactly
// these values.
type CommandKind int

const (
	KindEnter CommandKind = iota
	KindValue
	KindRemoveTail
	KindAddMapKey
	KindEnterMapKey
	KindRemoveMapKey
	KindExit
)

var commandWireNames = [...]string{
	KindEnter:        "Enter",
	KindValue:        "Value",
	KindRemoveTail:   "RemoveTail",
	KindAddMapKey:    "AddMapKey",
	KindEnterMapKey:  "EnterMapKey",
	KindRemoveMapKey: "RemoveMapKey",
	KindExit:         "Exit",
}

// WireName returns the string tag for a CommandKind, for host codecs that
// tag unions by name instead of by position.
func (k CommandKind) WireName() string {
	if int(k) < 0 || int(k) >= len(commandWireNames) {
		return "Unknown"
	}
	return commandWireNames[k]
}

// ImplicitlyExits reports whether a command of this kind closes its
// innermost Enter without a following explicit Exit (spec §4.1's
// implicit-exit rule): Value, RemoveTail, AddMapKey (together with its
// trailing Value), and RemoveMapKey are all self-closing.
func (k CommandKind) ImplicitlyExits() bool {
	switch k {
	case KindValue, KindRemoveTail, KindAddMapKey, KindRemoveMapKey:
		return true
	default:
		return false
	}
}

// CarriesPayload reports whether a command of this kind has a dynamically
// typed payload (a value or a map key) that the host codec must defer
// decoding of until the caller supplies a concrete destination type.
func (k CommandKind) CarriesPayload() bool {
	switch k {
	case KindValue, KindAddMapKey, KindEnterMapKey, KindRemoveMapKey:
		return true
	default:
		return false
	}
}
