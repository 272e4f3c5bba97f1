// Package envelope decodes the JSON event envelopes exchanged between the
// warehouse services. Publishers are polyglot: field names arrive in camelCase
// or snake_case, identifiers arrive as scalars or wrapped objects, and the
// event kind may live in a transport header, a serializer type tag, or a body
// field. The decoder absorbs all of that and hands consumers one tolerant
// shape.
package envelope

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ettle/strcase"
)

// Logical fields are looked up under every known spelling, camelCase first
// since that is what the JVM publishers emit.
var (
	eventIDAliases       = []string{"eventId", "event_id", "id"}
	eventTypeAliases     = []string{"eventType", "event_type"}
	aggregateTypeAliases = []string{"aggregateType", "aggregate_type"}
	aggregateIDAliases   = []string{"aggregateId", "aggregate_id"}
	tenantAliases        = []string{"tenantId", "tenant_id"}
	correlationAliases   = []string{"correlationId", "correlation_id"}
	causationAliases     = []string{"causationId", "causation_id"}
	occurredAtAliases    = []string{"occurredAt", "occurred_at", "timestamp"}
	actorAliases         = []string{"actor", "userId", "user_id"}
)

const classField = "@class"

// DecodeError reports an envelope that could not be parsed at all.
// It is never retryable: the bytes will not get better.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode envelope: %v", e.cause)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// MissingFieldError reports a required envelope field that is absent or
// empty. It is never retryable: redelivery brings the same bytes.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("envelope is missing required field %q", e.Field)
}

// Envelope is a decoded event envelope. The raw field map keeps every key
// the publisher sent, known or not.
type Envelope struct {
	kind Kind
	body []byte
	raw  map[string]json.RawMessage
}

// Decode parses a JSON envelope. The hint, when non-empty, wins kind
// resolution; it usually comes from the transport's event-type header.
func Decode(data []byte, hint string) (*Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{cause: err}
	}
	if raw == nil {
		return nil, &DecodeError{cause: fmt.Errorf("envelope is not a JSON object")}
	}

	return &Envelope{
		kind: resolveKind(hint, raw),
		body: data,
		raw:  raw,
	}, nil
}

// Kind returns the resolved event kind.
func (e *Envelope) Kind() Kind {
	return e.kind
}

// Raw returns the raw JSON value of a field, untouched.
func (e *Envelope) Raw(field string) (json.RawMessage, bool) {
	v, ok := e.raw[field]
	return v, ok
}

// DecodeInto unmarshals the whole envelope body into a typed event.
func (e *Envelope) DecodeInto(v any) error {
	if err := json.Unmarshal(e.body, v); err != nil {
		return &DecodeError{cause: err}
	}
	return nil
}

// String returns a field as a scalar string, unwrapping {"value": ...}
// identifier objects and stringifying numbers. Missing or unusable fields
// yield "".
func (e *Envelope) String(field string) string {
	return scalarString(e.raw[field])
}

// RequireString returns the field as a scalar string or a MissingFieldError.
func (e *Envelope) RequireString(field string) (string, error) {
	if v := e.String(field); v != "" {
		return v, nil
	}
	return "", &MissingFieldError{Field: field}
}

// ID returns an identifier field as a scalar string. On top of the wrapped
// object unwrapping, the field is looked up under its camelCase and
// snake_case spellings, so payload ids resolve regardless of the publisher's
// naming convention.
func (e *Envelope) ID(field string) string {
	if v := scalarString(e.raw[field]); v != "" {
		return v
	}
	for _, alt := range []string{strcase.ToSnake(field), strcase.ToCamel(field)} {
		if alt == field {
			continue
		}
		if v := scalarString(e.raw[alt]); v != "" {
			return v
		}
	}
	return ""
}

// RequireID returns an identifier field or a MissingFieldError.
func (e *Envelope) RequireID(field string) (string, error) {
	if v := e.ID(field); v != "" {
		return v, nil
	}
	return "", &MissingFieldError{Field: field}
}

// Time parses a field as RFC3339 or epoch seconds/milliseconds.
func (e *Envelope) Time(field string) (time.Time, bool) {
	return scalarTime(e.raw[field])
}

// Int64 parses a field as an integer, accepting quoted numbers.
func (e *Envelope) Int64(field string) (int64, bool) {
	raw, ok := e.raw[field]
	if !ok {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	if s := scalarString(raw); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// EventID returns the event identity under any known spelling.
func (e *Envelope) EventID() string {
	return e.firstString(eventIDAliases)
}

// TenantID returns the tenant identifier under any known spelling,
// unwrapping wrapped id objects.
func (e *Envelope) TenantID() string {
	return e.firstString(tenantAliases)
}

// RequireTenantID returns the tenant identifier or a MissingFieldError.
// Handlers that touch tenant-partitioned state need it before anything else.
func (e *Envelope) RequireTenantID() (string, error) {
	if v := e.TenantID(); v != "" {
		return v, nil
	}
	return "", &MissingFieldError{Field: tenantAliases[0]}
}

// AggregateType returns the aggregate type field, if present.
func (e *Envelope) AggregateType() string {
	return e.firstString(aggregateTypeAliases)
}

// AggregateID returns the aggregate identifier, if present.
func (e *Envelope) AggregateID() string {
	return e.firstString(aggregateIDAliases)
}

// RequireAggregateID returns the aggregate identifier or a MissingFieldError.
func (e *Envelope) RequireAggregateID() (string, error) {
	if v := e.AggregateID(); v != "" {
		return v, nil
	}
	return "", &MissingFieldError{Field: aggregateIDAliases[0]}
}

// CorrelationID returns the correlation identifier, if present.
func (e *Envelope) CorrelationID() string {
	return e.firstString(correlationAliases)
}

// CausationID returns the causation identifier, if present.
func (e *Envelope) CausationID() string {
	return e.firstString(causationAliases)
}

// Actor returns the initiating actor, if present.
func (e *Envelope) Actor() string {
	return e.firstString(actorAliases)
}

// OccurredAt returns the event occurrence time, if present.
func (e *Envelope) OccurredAt() (time.Time, bool) {
	for _, alias := range occurredAtAliases {
		if raw, ok := e.raw[alias]; ok {
			if t, ok := scalarTime(raw); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (e *Envelope) firstString(aliases []string) string {
	for _, alias := range aliases {
		if v := scalarString(e.raw[alias]); v != "" {
			return v
		}
	}
	return ""
}

// scalarString normalizes the id shapes seen on the wire: "abc",
// {"value":"abc"}, {"value":{"value":...}} and bare numbers.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	var wrapped struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Value) > 0 {
		return scalarString(wrapped.Value)
	}

	return ""
}

func scalarTime(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	var epoch float64
	if err := json.Unmarshal(raw, &epoch); err == nil {
		// Anything past the year 33658 in seconds is milliseconds
		if epoch > 1e12 {
			return time.UnixMilli(int64(epoch)).UTC(), true
		}
		return time.Unix(int64(epoch), 0).UTC(), true
	}

	return time.Time{}, false
}

func stringField(raw map[string]json.RawMessage, field string) string {
	return scalarString(raw[field])
}

func firstAlias(raw map[string]json.RawMessage, aliases []string) string {
	for _, alias := range aliases {
		if v := scalarString(raw[alias]); v != "" {
			return v
		}
	}
	return ""
}
