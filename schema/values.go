package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// Values is the raw, stringly-typed input a schema runs against: one
// value per field name, absent keys meaning absent fields.
type Values map[string]string

func FromQuery(q url.Values) Values {
	vals := make(Values, len(q))
	for key, vs := range q {
		if len(vs) > 0 {
			vals[key] = vs[0]
		} else {
			vals[key] = ""
		}
	}
	return vals
}

// FromJSON flattens a JSON object into Values. Scalars are rendered as
// their string form and nulls are dropped, so field validators remain
// the single place that accepts or rejects a value.
func FromJSON(body io.Reader) (Values, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	vals := make(Values, len(raw))
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
			// treated as absent
		case string:
			vals[key] = v
		case json.Number:
			vals[key] = v.String()
		case bool:
			vals[key] = fmt.Sprintf("%t", v)
		default:
			vals[key] = fmt.Sprint(v)
		}
	}
	return vals, nil
}
