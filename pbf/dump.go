package pbf

import (
	"encoding/hex"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

const maxDumpDepth = 64

// Dump renders the field structure of a protocol buffer message for debugging,
// one field per line, with nested messages indented by indent (two spaces when
// empty).
//
// Length-delimited fields are shown as a quoted string when they hold printable
// UTF-8, as a nested block when they parse as a message, as a list when they
// parse as packed varints, and as hex otherwise. Dump knows nothing about the
// geobuf schema; it is the same guesswork `protoc --decode_raw` does.
//
// Returns an error wrapping errs.ErrCorruptInput when data is not a valid
// message.
func Dump(data []byte, indent string) (string, error) {
	if indent == "" {
		indent = "  "
	}

	var sb strings.Builder
	if err := dumpMessage(&sb, data, indent, 0); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func dumpMessage(sb *strings.Builder, data []byte, indent string, depth int) error {
	prefix := strings.Repeat(indent, depth)
	r := NewReader(data)

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		sb.WriteString(prefix)
		sb.WriteString(strconv.Itoa(f.Num))

		switch f.Type {
		case WireVarint:
			v, err := r.Varint()
			if err != nil {
				return err
			}
			sb.WriteString(": ")
			sb.WriteString(strconv.FormatUint(v, 10))
		case WireFixed64:
			v, err := r.Double()
			if err != nil {
				return err
			}
			sb.WriteString(": ")
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			sb.WriteString(" (fixed64 0x")
			sb.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			sb.WriteString(")")
		case WireFixed32:
			start := r.Offset()
			if err := r.Skip(); err != nil {
				return err
			}
			sb.WriteString(": ")
			sb.WriteString(strconv.FormatUint(uint64(r.engine.Uint32(data[start:start+4])), 10))
			sb.WriteString(" (fixed32)")
		case WireBytes:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			if err := dumpBytes(sb, b, indent, depth); err != nil {
				return err
			}
		}

		sb.WriteString("\n")
	}
}

func dumpBytes(sb *strings.Builder, b []byte, indent string, depth int) error {
	switch {
	case len(b) == 0:
		sb.WriteString(`: ""`)
	case isPrintable(b):
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(string(b)))
	case depth+1 < maxDumpDepth && isMessage(b):
		sb.WriteString(" {\n")
		if err := dumpMessage(sb, b, indent, depth+1); err != nil {
			return err
		}
		sb.WriteString(strings.Repeat(indent, depth))
		sb.WriteString("}")
	default:
		if values, ok := packedVarints(b); ok {
			sb.WriteString(": [")
			for i, v := range values {
				if i > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(strconv.FormatUint(v, 10))
			}
			sb.WriteString("]")
		} else {
			sb.WriteString(": 0x")
			sb.WriteString(hex.EncodeToString(b))
		}
	}

	return nil
}

func isPrintable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, c := range string(b) {
		if !unicode.IsPrint(c) && !unicode.IsSpace(c) {
			return false
		}
	}

	return true
}

func isMessage(b []byte) bool {
	r := NewReader(b)
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			return false
		}
		if err := r.Skip(); err != nil {
			return false
		}
	}
}

func packedVarints(b []byte) ([]uint64, bool) {
	r := NewReader(b)
	var values []uint64
	for r.Remaining() > 0 {
		v, err := r.varint()
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}

	return values, true
}
