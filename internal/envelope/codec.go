package envelope

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode writes CBOR with Core Deterministic Encoding (RFC 8949 §4.2), so
// a record or envelope always serializes to the same bytes.
var encMode cbor.EncMode

// decMode only accepts the narrow shapes this package writes. Unknown or
// duplicate keys, indefinite-length items and trailing bytes are errors.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("envelope: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		IndefLength:       cbor.IndefLengthForbidden,
		MaxNestedLevels:   4,
		MaxArrayElements:  16,
		MaxMapPairs:       16,
	}.DecMode()
	if err != nil {
		panic("envelope: CBOR decoder initialization failed: " + err.Error())
	}
}
