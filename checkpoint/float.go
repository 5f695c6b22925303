package checkpoint

import "encoding/json"
import "fmt"
import "math"

// Float is a float64 whose json form keeps NaN and the infinities, written as
// the strings "NaN", "+Inf" and "-Inf".
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "NaN":
		*f = Float(math.NaN())
	case "+Inf", "Inf":
		*f = Float(math.Inf(1))
	case "-Inf":
		*f = Float(math.Inf(-1))
	default:
		return fmt.Errorf("checkpoint: invalid float %q", s)
	}
	return nil
}

func toFloats(v []float64) []Float {
	o := make([]Float, len(v))
	for i, x := range v {
		o[i] = Float(x)
	}
	return o
}

func fromFloats(v []Float) []float64 {
	if v == nil {
		return nil
	}
	o := make([]float64, len(v))
	for i, x := range v {
		o[i] = float64(x)
	}
	return o
}

type tensorJSON struct {
	Shape []int   `json:"shape"`
	Data  []Float `json:"data"`
}

// MarshalJSON implements json.Marshaler, keeping non-finite values.
func (t Tensor) MarshalJSON() ([]byte, error) {
	return json.Marshal(tensorJSON{Shape: t.Shape, Data: toFloats(t.Data)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tensor) UnmarshalJSON(b []byte) error {
	var tj tensorJSON
	if err := json.Unmarshal(b, &tj); err != nil {
		return err
	}
	t.Shape, t.Data = tj.Shape, fromFloats(tj.Data)
	return nil
}

// Metrics are named scalar results stored next to the training state.
type Metrics map[string]float64

// MarshalJSON implements json.Marshaler, keeping non-finite values.
func (m Metrics) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	o := make(map[string]Float, len(m))
	for k, v := range m {
		o[k] = Float(v)
	}
	return json.Marshal(o)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metrics) UnmarshalJSON(b []byte) error {
	var o map[string]Float
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	if o == nil {
		*m = nil
		return nil
	}
	*m = make(Metrics, len(o))
	for k, v := range o {
		(*m)[k] = float64(v)
	}
	return nil
}
