package arrayvec

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const cborNull = 0xf6

// MarshalCBOR implements the cbor.Marshaler interface.
//
// It marshals the live elements as a CBOR array.
func (v ArrayVec[T, A]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(v.elems())
}

// UnmarshalCBOR implements the cbor.Unmarshaler interface.
//
// An array longer than the capacity fails with ErrCapacity and leaves v
// unchanged, as does null.
func (v *ArrayVec[T, A]) UnmarshalCBOR(data []byte) error {
	if len(data) == 1 && data[0] == cborNull {
		return nil
	}
	var xs []T
	if err := cbor.Unmarshal(data, &xs); err != nil {
		return errors.Wrap(err, "arrayvec: decode cbor")
	}
	return v.replace(xs)
}
