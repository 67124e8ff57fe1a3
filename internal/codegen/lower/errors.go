package lower

import "errors"

var (
	// ErrUnsupportedType is returned for a type descriptor outside the
	// supported kinds, or an elaborated type naming something other than a struct.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrMalformedStruct is returned when a struct member is neither a field
	// nor a nested struct, or when two fields share a name.
	ErrMalformedStruct = errors.New("malformed struct")
	// ErrMissingName is returned for a struct or typedef without a name.
	ErrMissingName = errors.New("missing name")
	// ErrMissingFieldName is returned for a struct field without a name.
	ErrMissingFieldName = errors.New("missing field name")
	// ErrUnhandledTopLevelKind is returned for a top-level declaration that is
	// neither a typedef nor a struct.
	ErrUnhandledTopLevelKind = errors.New("unhandled top-level declaration")
	// ErrUnresolvedReference is reported by Verify for a named type that has
	// no declaration and is not a primitive.
	ErrUnresolvedReference = errors.New("unresolved type reference")
)
