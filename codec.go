package arrayvec

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the live elements as a JSON array. An empty vector is
// "[]", never null.
func (v ArrayVec[T, A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.elems())
}

// UnmarshalJSON replaces the contents of v with a JSON array. An array longer
// than the capacity fails with ErrCapacity and leaves v unchanged; null leaves
// v unchanged too.
func (v *ArrayVec[T, A]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var xs []T
	if err := json.Unmarshal(data, &xs); err != nil {
		return errors.Wrap(err, "arrayvec: decode json")
	}
	return v.replace(xs)
}

// MarshalYAML encodes the live elements as a YAML sequence.
func (v ArrayVec[T, A]) MarshalYAML() (any, error) {
	return v.elems(), nil
}

// UnmarshalYAML replaces the contents of v with a YAML sequence, with the
// same capacity rule as UnmarshalJSON.
func (v *ArrayVec[T, A]) UnmarshalYAML(node *yaml.Node) error {
	var xs []T
	if err := node.Decode(&xs); err != nil {
		return errors.Wrap(err, "arrayvec: decode yaml")
	}
	return v.replace(xs)
}

// elems returns the live elements as a non-nil slice.
func (v *ArrayVec[T, A]) elems() []T {
	if s := v.Slice(); s != nil {
		return s
	}
	return []T{}
}

// replace swaps the contents of v for xs, all or nothing. It fails with
// ErrDrainActive instead of panicking while a Drain is open.
func (v *ArrayVec[T, A]) replace(xs []T) error {
	if v.hdr.draining {
		return ErrDrainActive
	}
	if len(xs) > v.Cap() {
		return errors.Wrapf(ErrCapacity, "arrayvec: %d elements do not fit in %d slots", len(xs), v.Cap())
	}
	v.Clear()
	return v.ExtendFromSlice(xs)
}
