package models

import "encoding/json"

// ManualRecord is one day of human-entered counts. Channels holds values that
// stand on their own; Supplement holds values added on top of an automated
// base. Extra keeps any key we do not understand so that historical records
// survive new channels without a migration.
type ManualRecord struct {
	Date       string
	Channels   map[string]int
	Supplement map[string]int
	Extra      map[string]json.RawMessage
}

func NewManualRecord(date string, rules ChannelRules) ManualRecord {
	rec := ManualRecord{
		Date:       date,
		Channels:   map[string]int{},
		Supplement: map[string]int{},
	}
	// materializa en cero todos los canales escribibles
	for ch, rule := range rules {
		switch rule {
		case ProvManual:
			rec.Channels[ch] = 0
		case ProvCombined:
			rec.Supplement[ch] = 0
		}
	}
	return rec
}

func (r ManualRecord) Clone() ManualRecord {
	out := ManualRecord{
		Date:       r.Date,
		Channels:   make(map[string]int, len(r.Channels)),
		Supplement: make(map[string]int, len(r.Supplement)),
	}
	for k, v := range r.Channels {
		out.Channels[k] = v
	}
	for k, v := range r.Supplement {
		out.Supplement[k] = v
	}
	if len(r.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON flattens Channels at the top level with Supplement nested under
// "supplement", matching the persisted layout. Extra keys are re-emitted
// verbatim.
func (r ManualRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(r.Channels)+len(r.Extra)+1)
	for ch, v := range r.Channels {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[ch] = b
	}
	if len(r.Supplement) > 0 {
		b, err := json.Marshal(r.Supplement)
		if err != nil {
			return nil, err
		}
		m["supplement"] = b
	}
	for k, v := range r.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}

func (r *ManualRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Channels = map[string]int{}
	r.Supplement = map[string]int{}
	r.Extra = nil
	for k, v := range raw {
		if k == "supplement" {
			if err := json.Unmarshal(v, &r.Supplement); err != nil {
				return err
			}
			continue
		}
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			r.Channels[k] = n
			continue
		}
		if r.Extra == nil {
			r.Extra = map[string]json.RawMessage{}
		}
		r.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}
