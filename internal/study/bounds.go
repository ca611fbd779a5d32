// Package study is the user-facing optimization surface: callers describe
// integer parameters through Bounds, hand an objective to a Study, and read
// the winning parameters back as a named trial once the simulation budget
// is spent.
package study

import (
	"errors"
	"fmt"
)

// Parameter is one suggested integer parameter. Size > 1 replicates the
// same range across that many consecutive dimensions of the search space.
type Parameter struct {
	Name string
	Low  int
	High int
	Size int
}

// Bounds collects suggested parameters in suggestion order.
type Bounds struct {
	params []Parameter
}

func NewBounds() *Bounds {
	return &Bounds{}
}

// SuggestInt adds a scalar integer parameter ranging over [low, high].
func (b *Bounds) SuggestInt(name string, low, high int) error {
	return b.SuggestInts(name, low, high, 1)
}

// SuggestInts adds an integer vector parameter: size dimensions, each
// ranging over [low, high].
func (b *Bounds) SuggestInts(name string, low, high, size int) error {
	if name == "" {
		return errors.New("parameter name is required")
	}
	if low >= high {
		return fmt.Errorf("parameter %q needs low < high, got [%d, %d]", name, low, high)
	}
	if size < 1 {
		return fmt.Errorf("parameter %q needs size >= 1, got %d", name, size)
	}
	for _, p := range b.params {
		if p.Name == name {
			return fmt.Errorf("parameter %q suggested twice", name)
		}
	}
	b.params = append(b.params, Parameter{Name: name, Low: low, High: high, Size: size})
	return nil
}

func (b *Bounds) Parameters() []Parameter {
	return append([]Parameter(nil), b.params...)
}

func (b *Bounds) Dimension() int {
	total := 0
	for _, p := range b.params {
		total += p.Size
	}
	return total
}

// IntBounds expands the suggested parameters into flat per-dimension
// lower and upper bound vectors, in suggestion order.
func (b *Bounds) IntBounds() (lower, upper []int) {
	lower = make([]int, 0, b.Dimension())
	upper = make([]int, 0, b.Dimension())
	for _, p := range b.params {
		for i := 0; i < p.Size; i++ {
			lower = append(lower, p.Low)
			upper = append(upper, p.High)
		}
	}
	return lower, upper
}

// ParamValue is a named slice of the winning action vector; scalar
// parameters carry a single value.
type ParamValue struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

// Decode splits an action vector back into named parameter values.
func (b *Bounds) Decode(action []int) ([]ParamValue, error) {
	if len(action) != b.Dimension() {
		return nil, fmt.Errorf("action length mismatch: got=%d want=%d", len(action), b.Dimension())
	}
	values := make([]ParamValue, 0, len(b.params))
	offset := 0
	for _, p := range b.params {
		values = append(values, ParamValue{
			Name:   p.Name,
			Values: append([]int(nil), action[offset:offset+p.Size]...),
		})
		offset += p.Size
	}
	return values, nil
}
