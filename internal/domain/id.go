package domain

import (
	"encoding/json"
	"strings"
)

// IDKind discriminates the two disjoint deck identifier spaces.
type IDKind string

const (
	// IDLocal marks identifiers generated client-side by the local store.
	IDLocal IDKind = "local"

	// IDServer marks identifiers assigned by the remote backend on creation.
	IDServer IDKind = "server"
)

// LocalIDPrefix is the namespace prefix of locally generated identifiers.
// The string form of a local id is "local_<unix-milli>_<random-suffix>".
const LocalIDPrefix = "local_"

// DeckID identifies a deck in exactly one of the two backends. The Kind
// discriminant is carried explicitly rather than recovered by string sniffing,
// so routing decisions never depend on parsing the value.
type DeckID struct {
	Kind  IDKind
	Value string
}

// LocalID constructs a local-space deck identifier.
func LocalID(value string) DeckID {
	return DeckID{Kind: IDLocal, Value: value}
}

// ServerID constructs a server-space deck identifier.
func ServerID(value string) DeckID {
	return DeckID{Kind: IDServer, Value: value}
}

// ParseID recovers a DeckID from its string form. The "local_" prefix is the
// only marker of the local space; everything else is a server identifier.
func ParseID(s string) DeckID {
	if strings.HasPrefix(s, LocalIDPrefix) {
		return DeckID{Kind: IDLocal, Value: s}
	}
	return DeckID{Kind: IDServer, Value: s}
}

// IsZero reports whether the identifier is unset (a draft deck).
func (id DeckID) IsZero() bool {
	return id.Value == ""
}

// String returns the wire/string form of the identifier.
func (id DeckID) String() string {
	return id.Value
}

// MarshalJSON encodes the identifier as its string form. The kind is implied
// by the namespace prefix and re-derived on decode.
func (id DeckID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Value)
}

// UnmarshalJSON decodes the string form and re-derives the kind.
func (id *DeckID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ParseID(s)
	return nil
}
