package pwsafer

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// The streaming core hands out raw (tag, bytes) pairs; this file and
// record.go map them to typed values. Each catalog is a closed lookup table
// from a one-byte tag to a decoding rule; tags absent from the table decode
// to an opaque raw value so nothing is ever lost.

// FieldKind describes how a field payload is decoded.
type FieldKind uint8

const (
	// KindRaw is an opaque byte sequence (unrecognized tags).
	KindRaw FieldKind = iota
	// KindShort is a 2-byte little-endian unsigned integer.
	KindShort
	// KindWord is a 4-byte little-endian unsigned integer.
	KindWord
	// KindByte is a single byte.
	KindByte
	// KindText is a UTF-8 string.
	KindText
	// KindTime is a 4-byte little-endian Unix timestamp.
	KindTime
	// KindUUID is a 16-byte UUID.
	KindUUID
	// KindEnd is a terminator field (end of header, end of record).
	KindEnd
)

// Value is the decoded form of a field payload. Kind selects which of the
// typed members is meaningful; Raw always holds the original bytes.
type Value struct {
	Kind FieldKind
	Name string // catalog name for the tag, empty if unrecognized

	Uint uint32
	Text string
	Time time.Time
	UUID uuid.UUID
	Raw  []byte
}

// String renders the decoded value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindShort, KindWord, KindByte:
		return fmt.Sprintf("%d", v.Uint)
	case KindText:
		return v.Text
	case KindTime:
		return v.Time.Format(time.RFC3339)
	case KindUUID:
		return v.UUID.String()
	case KindEnd:
		return ""
	default:
		return fmt.Sprintf("%d bytes", len(v.Raw))
	}
}

type catalogEntry struct {
	name string
	kind FieldKind
}

// decodeValue applies one catalog rule to a payload.
func decodeValue(tag byte, entry catalogEntry, data []byte) (Value, error) {
	v := Value{Kind: entry.kind, Name: entry.name, Raw: data}
	switch entry.kind {
	case KindShort:
		if len(data) != 2 {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: expected 2 bytes, got %d", entry.name, len(data))}
		}
		v.Uint = uint32(binary.LittleEndian.Uint16(data))
	case KindWord:
		if len(data) != 4 {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: expected 4 bytes, got %d", entry.name, len(data))}
		}
		v.Uint = binary.LittleEndian.Uint32(data)
	case KindByte:
		if len(data) != 1 {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: expected 1 byte, got %d", entry.name, len(data))}
		}
		v.Uint = uint32(data[0])
	case KindTime:
		if len(data) != 4 {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: expected 4 bytes, got %d", entry.name, len(data))}
		}
		v.Time = time.Unix(int64(binary.LittleEndian.Uint32(data)), 0).UTC()
	case KindUUID:
		if len(data) != 16 {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: expected 16 bytes, got %d", entry.name, len(data))}
		}
		id, err := uuid.FromBytes(data)
		if err != nil {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: %v", entry.name, err)}
		}
		v.UUID = id
	case KindText:
		if !utf8.Valid(data) {
			return v, &FieldError{Tag: tag, Message: fmt.Sprintf("%s: invalid UTF-8", entry.name)}
		}
		v.Text = string(data)
	}
	return v, nil
}

// HeaderType identifies a database header field.
type HeaderType byte

// Header field tags. 0x0c through 0x0e are reserved by the format.
const (
	HeaderVersion            HeaderType = 0x00
	HeaderUUID               HeaderType = 0x01
	HeaderPreferences        HeaderType = 0x02
	HeaderTreeDisplayStatus  HeaderType = 0x03
	HeaderLastSaveTime       HeaderType = 0x04
	HeaderLastSaveWho        HeaderType = 0x05
	HeaderLastSaveWhat       HeaderType = 0x06
	HeaderLastSaveUser       HeaderType = 0x07
	HeaderLastSaveHost       HeaderType = 0x08
	HeaderDatabaseName       HeaderType = 0x09
	HeaderDatabaseDesc       HeaderType = 0x0a
	HeaderDatabaseFilters    HeaderType = 0x0b
	HeaderRecentEntries      HeaderType = 0x0f
	HeaderPasswordPolicies   HeaderType = 0x10
	HeaderEmptyGroups        HeaderType = 0x11
	HeaderYubico             HeaderType = 0x12
	HeaderLastPasswordChange HeaderType = 0x13
	HeaderEnd                HeaderType = 0xff
)

var headerCatalog = map[byte]catalogEntry{
	byte(HeaderVersion):            {"version", KindShort},
	byte(HeaderUUID):               {"uuid", KindUUID},
	byte(HeaderPreferences):        {"preferences", KindText},
	byte(HeaderTreeDisplayStatus):  {"tree-display-status", KindText},
	byte(HeaderLastSaveTime):       {"last-save-time", KindTime},
	byte(HeaderLastSaveWho):        {"last-save-who", KindText},
	byte(HeaderLastSaveWhat):       {"last-save-what", KindText},
	byte(HeaderLastSaveUser):       {"last-save-user", KindText},
	byte(HeaderLastSaveHost):       {"last-save-host", KindText},
	byte(HeaderDatabaseName):       {"database-name", KindText},
	byte(HeaderDatabaseDesc):       {"database-description", KindText},
	byte(HeaderDatabaseFilters):    {"database-filters", KindText},
	byte(HeaderRecentEntries):      {"recently-used-entries", KindText},
	byte(HeaderPasswordPolicies):   {"named-password-policies", KindText},
	byte(HeaderEmptyGroups):        {"empty-groups", KindText},
	byte(HeaderYubico):             {"yubico", KindText},
	byte(HeaderLastPasswordChange): {"last-password-change", KindTime},
	byte(HeaderEnd):                {"end-of-header", KindEnd},
}

// DecodeHeaderField decodes one header field payload. Unrecognized tags
// decode to a KindRaw value carrying the payload unchanged.
func DecodeHeaderField(tag byte, data []byte) (Value, error) {
	entry, ok := headerCatalog[tag]
	if !ok {
		entry = catalogEntry{kind: KindRaw}
	}
	return decodeValue(tag, entry, data)
}
