package pwsafer

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

const (
	// FormatVersion is the database version this package writes (3.14).
	FormatVersion uint16 = 0x030e

	// DefaultIterations is the key stretching count used when a database
	// does not specify one. Matches the format's minimum recommendation.
	DefaultIterations uint32 = 2048
)

// RawField preserves a field whose tag this package does not model, so a
// database can be rewritten without losing information.
type RawField struct {
	Tag  byte
	Data []byte
}

// DatabaseInfo holds the decoded header fields of a database.
type DatabaseInfo struct {
	Version     uint16
	UUID        uuid.UUID
	Name        string
	Description string
	LastSave    time.Time
	Unknown     []RawField // header fields not modeled above, kept verbatim
}

// Record is one password entry. Fields the package does not model are kept
// verbatim in Unknown.
type Record struct {
	UUID               uuid.UUID
	Group              string
	Title              string
	Username           string
	Password           string
	Notes              string
	URL                string
	Autotype           string
	Email              string
	CreationTime       time.Time
	PasswordModTime    time.Time
	LastAccessTime     time.Time
	PasswordExpiryTime time.Time
	LastModTime        time.Time
	Unknown            []RawField
}

func (r *Record) empty() bool {
	return r.UUID == uuid.Nil && r.Group == "" && r.Title == "" &&
		r.Username == "" && r.Password == "" && r.Notes == "" &&
		r.URL == "" && r.Autotype == "" && r.Email == "" &&
		r.CreationTime.IsZero() && r.PasswordModTime.IsZero() &&
		r.LastAccessTime.IsZero() && r.PasswordExpiryTime.IsZero() &&
		r.LastModTime.IsZero() && len(r.Unknown) == 0
}

// Database is a fully decoded database file.
type Database struct {
	Info       DatabaseInfo
	Records    []Record
	Iterations uint32
}

// ReadAll consumes an entire field stream into a Database and verifies its
// integrity. The reader must be freshly opened: ReadAll reads the version
// field first.
func ReadAll(r *Reader) (*Database, error) {
	db := &Database{Iterations: r.Iterations()}

	version, err := r.ReadVersion()
	if err != nil {
		return nil, err
	}
	db.Info.Version = version

	// Header fields up to the end-of-header marker.
	for {
		field, err := r.ReadField()
		if err != nil {
			return nil, err
		}
		if field == nil {
			return nil, NewFormatError("field stream ended inside the header", ErrInvalidHeader)
		}
		if field.Tag == byte(HeaderEnd) {
			break
		}
		if err := db.Info.apply(field); err != nil {
			return nil, err
		}
	}

	// Records, each terminated by an end-of-record marker.
	var rec Record
	for {
		field, err := r.ReadField()
		if err != nil {
			return nil, err
		}
		if field == nil {
			break
		}
		if field.Tag == byte(RecordEnd) {
			db.Records = append(db.Records, rec)
			rec = Record{}
			continue
		}
		if err := rec.apply(field); err != nil {
			return nil, err
		}
	}
	if !rec.empty() {
		return nil, NewFormatError("record not terminated before end of stream", nil)
	}

	if err := r.Verify(); err != nil {
		return nil, err
	}
	return db, nil
}

func (info *DatabaseInfo) apply(field *Field) error {
	value, err := DecodeHeaderField(field.Tag, field.Data)
	if err != nil {
		return err
	}
	switch HeaderType(field.Tag) {
	case HeaderUUID:
		info.UUID = value.UUID
	case HeaderDatabaseName:
		info.Name = value.Text
	case HeaderDatabaseDesc:
		info.Description = value.Text
	case HeaderLastSaveTime:
		info.LastSave = value.Time
	default:
		info.Unknown = append(info.Unknown, RawField{Tag: field.Tag, Data: field.Data})
	}
	return nil
}

func (r *Record) apply(field *Field) error {
	value, err := DecodeRecordField(field.Tag, field.Data)
	if err != nil {
		return err
	}
	switch RecordType(field.Tag) {
	case RecordUUID:
		r.UUID = value.UUID
	case RecordGroup:
		r.Group = value.Text
	case RecordTitle:
		r.Title = value.Text
	case RecordUsername:
		r.Username = value.Text
	case RecordPassword:
		r.Password = value.Text
	case RecordNotes:
		r.Notes = value.Text
	case RecordURL:
		r.URL = value.Text
	case RecordAutotype:
		r.Autotype = value.Text
	case RecordEmail:
		r.Email = value.Text
	case RecordCreationTime:
		r.CreationTime = value.Time
	case RecordPasswordModTime:
		r.PasswordModTime = value.Time
	case RecordLastAccessTime:
		r.LastAccessTime = value.Time
	case RecordPasswordExpiryTime:
		r.PasswordExpiryTime = value.Time
	case RecordLastModTime:
		r.LastModTime = value.Time
	default:
		r.Unknown = append(r.Unknown, RawField{Tag: field.Tag, Data: field.Data})
	}
	return nil
}

// WriteAll writes the database's fields to an open Writer and finishes it.
func (db *Database) WriteAll(w *Writer) error {
	version := db.Info.Version
	if version == 0 {
		version = FormatVersion
	}
	var v [2]byte
	binary.LittleEndian.PutUint16(v[:], version)
	if err := w.WriteField(byte(HeaderVersion), v[:]); err != nil {
		return err
	}

	if db.Info.UUID != uuid.Nil {
		if err := w.WriteField(byte(HeaderUUID), db.Info.UUID[:]); err != nil {
			return err
		}
	}
	if db.Info.Name != "" {
		if err := w.WriteField(byte(HeaderDatabaseName), []byte(db.Info.Name)); err != nil {
			return err
		}
	}
	if db.Info.Description != "" {
		if err := w.WriteField(byte(HeaderDatabaseDesc), []byte(db.Info.Description)); err != nil {
			return err
		}
	}
	if !db.Info.LastSave.IsZero() {
		if err := w.WriteField(byte(HeaderLastSaveTime), encodeTime(db.Info.LastSave)); err != nil {
			return err
		}
	}
	for _, f := range db.Info.Unknown {
		if err := w.WriteField(f.Tag, f.Data); err != nil {
			return err
		}
	}
	if err := w.WriteField(byte(HeaderEnd), nil); err != nil {
		return err
	}

	for i := range db.Records {
		if err := db.Records[i].writeTo(w); err != nil {
			return err
		}
	}
	return w.Finish()
}

func (r *Record) writeTo(w *Writer) error {
	type textField struct {
		tag  RecordType
		text string
	}
	if r.UUID != uuid.Nil {
		if err := w.WriteField(byte(RecordUUID), r.UUID[:]); err != nil {
			return err
		}
	}
	for _, f := range []textField{
		{RecordGroup, r.Group},
		{RecordTitle, r.Title},
		{RecordUsername, r.Username},
		{RecordPassword, r.Password},
		{RecordNotes, r.Notes},
		{RecordURL, r.URL},
		{RecordAutotype, r.Autotype},
		{RecordEmail, r.Email},
	} {
		if f.text == "" {
			continue
		}
		if err := w.WriteField(byte(f.tag), []byte(f.text)); err != nil {
			return err
		}
	}
	type timeField struct {
		tag RecordType
		t   time.Time
	}
	for _, f := range []timeField{
		{RecordCreationTime, r.CreationTime},
		{RecordPasswordModTime, r.PasswordModTime},
		{RecordLastAccessTime, r.LastAccessTime},
		{RecordPasswordExpiryTime, r.PasswordExpiryTime},
		{RecordLastModTime, r.LastModTime},
	} {
		if f.t.IsZero() {
			continue
		}
		if err := w.WriteField(byte(f.tag), encodeTime(f.t)); err != nil {
			return err
		}
	}
	for _, f := range r.Unknown {
		if err := w.WriteField(f.Tag, f.Data); err != nil {
			return err
		}
	}
	return w.WriteField(byte(RecordEnd), nil)
}

func encodeTime(t time.Time) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(t.Unix()))
	return b[:]
}

// Rekey streams every field of src into a freshly keyed database on dst,
// preserving the iteration count. It verifies the source and finishes the
// destination. This is the only supported way to change a database's
// password: the format has no in-place mutation.
func Rekey(src *Reader, dst io.Writer, password []byte) error {
	w, err := NewWriter(dst, src.Iterations(), password)
	if err != nil {
		return err
	}
	for {
		field, err := src.ReadField()
		if err != nil {
			return err
		}
		if field == nil {
			break
		}
		if err := w.WriteField(field.Tag, field.Data); err != nil {
			return err
		}
	}
	if err := src.Verify(); err != nil {
		return err
	}
	return w.Finish()
}

// DecodeFile opens a database file on fs, decodes it fully and verifies its
// integrity.
func DecodeFile(fs absfs.FileSystem, name string, password []byte) (*Database, error) {
	f, err := fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, NewIOError("open", err)
	}
	defer f.Close()

	r, err := NewReader(f, password)
	if err != nil {
		return nil, err
	}
	return ReadAll(r)
}

// EncodeFile writes the database to a file on fs under the given password.
// A zero Iterations falls back to DefaultIterations.
func (db *Database) EncodeFile(fs absfs.FileSystem, name string, password []byte) error {
	iterations := db.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}

	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return NewIOError("open", err)
	}

	w, err := NewWriter(f, iterations, password)
	if err != nil {
		f.Close()
		return err
	}
	if err := db.WriteAll(w); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
