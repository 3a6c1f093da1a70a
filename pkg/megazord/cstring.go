package megazord

import (
	"strings"
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// copyCString copies the NUL-terminated string at p into Go memory. Invalid
// UTF-8 sequences are replaced with U+FFFD. p must not be nil.
func copyCString(p *byte) string {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	// string() of the slice copies, so nothing aliases engine memory.
	s := string(unsafe.Slice(p, n))
	return strings.ToValidUTF8(s, "\uFFFD")
}

// optionalString decodes a nullable char*. Null means absent.
func optionalString(p *byte) *string {
	if p == nil {
		return nil
	}
	s := copyCString(p)
	return &s
}

// requiredString decodes a char* the engine guarantees to be non-null. A null
// pointer is reported as a decode failure for field rather than a panic.
func requiredString(field string, p *byte) (string, error) {
	if p == nil {
		return "", ontology.NullPointer(field)
	}
	return copyCString(p), nil
}
