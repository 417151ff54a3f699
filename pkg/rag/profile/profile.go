package profile

import "encoding/json"

// Fields is the fixed schema the extraction stage asks for.
var Fields = []string{
	"fullName",
	"name",
	"policyNumber",
	"premium",
	"paymentDate",
	"paymentMode",
	"phoneNumber",
	"email",
}

// Profile is the customer data carried between turns by the client.
type Profile map[string]any

// Merge folds extracted values into base. A key is only filled while base
// has no meaningful value for it, so the first value seen sticks. base is
// not modified.
func Merge(base, extracted Profile) Profile {
	out := make(Profile, len(base)+len(extracted))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extracted {
		if !Present(v) || Present(out[k]) {
			continue
		}
		out[k] = v
	}
	return out
}

// Present reports whether v carries a value. Nil, the empty string, zero
// numbers, false and empty collections do not; whitespace is a value.
func Present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// Decode accepts customer data either as an object or as a JSON string
// holding one. Anything else yields an empty profile.
func Decode(raw json.RawMessage) Profile {
	if len(raw) == 0 {
		return Profile{}
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err == nil && p != nil {
		return p
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return DecodeString(s)
	}
	return Profile{}
}

func DecodeString(s string) Profile {
	var p Profile
	if err := json.Unmarshal([]byte(s), &p); err != nil || p == nil {
		return Profile{}
	}
	return p
}

// JSON renders the profile for prompts. Keys come out sorted.
func (p Profile) JSON() string {
	if p == nil {
		return "{}"
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}
