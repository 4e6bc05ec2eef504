package schedule

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON decodes the fact document leniently. The upstream page
// sometimes serializes an empty day or queue as [] and may carry non-string
// hour values; such days and queues decode as empty and such hours are
// dropped, which Normalize reports as StatusUnknown.
func (f *Fact) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data   json.RawMessage `json:"data"`
		Update string          `json:"update"`
		Today  int64           `json:"today"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	f.Update = raw.Update
	f.Today = raw.Today
	f.Data = make(map[string]map[string]map[string]string)
	for day, dayRaw := range object(raw.Data) {
		queues := make(map[string]map[string]string)
		for queue, queueRaw := range object(dayRaw) {
			hours := make(map[string]string)
			for hour, v := range object(queueRaw) {
				v = bytes.TrimSpace(v)
				if len(v) == 0 || v[0] != '"' {
					continue
				}
				var token string
				if json.Unmarshal(v, &token) == nil {
					hours[hour] = token
				}
			}
			queues[queue] = hours
		}
		f.Data[day] = queues
	}
	return nil
}

// object decodes raw as a JSON object. Anything else, including [] and
// null, yields an empty map.
func object(raw json.RawMessage) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]json.RawMessage{}
	}
	return out
}
