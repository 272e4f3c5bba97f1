package envelope

import (
	"encoding/json"
	"strings"
)

// Kind is the event type name of an envelope, e.g. "StockItemClassified".
// Publishers sending fully qualified names produce kinds like
// "com.warehouse.stock.StockItemClassified"; Is matches both forms.
type Kind string

// KindUnknown marks an envelope whose kind could not be resolved from any
// source. Such envelopes still reach handlers; most skip them.
const KindUnknown Kind = "Unknown"

func (k Kind) String() string {
	return string(k)
}

// Is reports whether the kind matches the given short name. The match is
// tolerant: an exact short name matches, and so does any kind containing the
// name as a substring, which absorbs publisher-specific prefixes and
// suffixes ("StockItemClassifiedEvent", "InternalStockItemClassified").
func (k Kind) Is(name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(string(k), name)
}

// IsUnknown reports whether kind resolution fell through every source.
func (k Kind) IsUnknown() bool {
	return k == KindUnknown || k == ""
}

// resolveKind picks the event kind from the strongest available source:
// the transport hint, then the serializer's @class tag, then the eventType
// field, then the aggregateType field. The hint and the plain fields are
// used as-is; only the @class tag is reduced to its short name, so
// "com.warehouse.stock.StockEvents$StockItemClassified" resolves to
// "StockItemClassified".
func resolveKind(hint string, raw map[string]json.RawMessage) Kind {
	if h := strings.TrimSpace(hint); h != "" {
		return Kind(h)
	}
	if class := stringField(raw, classField); class != "" {
		return Kind(shortName(class))
	}
	if eventType := firstAlias(raw, eventTypeAliases); eventType != "" {
		return Kind(eventType)
	}
	if aggregateType := firstAlias(raw, aggregateTypeAliases); aggregateType != "" {
		return Kind(aggregateType)
	}
	return KindUnknown
}

// shortName strips everything up to the last package or nesting separator.
func shortName(s string) string {
	if idx := strings.LastIndexAny(s, ".$/"); idx >= 0 && idx+1 < len(s) {
		return s[idx+1:]
	}
	return s
}
