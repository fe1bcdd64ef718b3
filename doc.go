// Package pwsafer reads and writes Password Safe version 3 databases, the
// encrypted, field-based container format used by the Password Safe family
// of password managers.
//
// # Overview
//
// pwsafer provides a streaming Reader and Writer over any io.Reader or
// io.Writer. Neither requires seeking: by design the format forbids random
// access. Field blocks are encrypted in CBC mode, so checking database
// integrity requires reading the whole file, and the database is rekeyed
// with fresh secrets on every write, so any modification rewrites the file
// from scratch.
//
// Only version 3 of the database format is supported.
//
// # File Format
//
// A database consists of (all integers little-endian):
//   - Magic tag (4 bytes): "PWS3"
//   - Salt (32 bytes): random per database
//   - Iteration count (4 bytes): key stretching rounds
//   - Verification hash (32 bytes): SHA-256 of the stretched key
//   - Wrapped content key K (32 bytes): Twofish-ECB under the stretched key
//   - Wrapped MAC key L (32 bytes): Twofish-ECB under the stretched key
//   - IV (16 bytes): CBC initialization vector
//   - Field blocks (16 bytes each): Twofish-CBC, chained across fields
//   - Sentinel (16 bytes): "PWS3-EOFPWS3-EOF", stored unencrypted
//   - Integrity tag (32 bytes): HMAC-SHA256 over all field payload bytes
//
// Each field starts with a block carrying a 4-byte length, a 1-byte type
// tag and the first 11 payload bytes; continuation blocks carry 16 payload
// bytes each. Unused trailing bytes of a field's last block are filled with
// random padding so ciphertext-only observers cannot see field boundaries.
//
// # Basic Usage
//
//	file, _ := os.Open("vault.psafe3")
//	db, err := pwsafer.NewReader(bufio.NewReader(file), []byte("password"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	version, _ := db.ReadVersion()
//	for {
//	    field, err := db.ReadField()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if field == nil {
//	        break
//	    }
//	    fmt.Printf("field 0x%02x, %d bytes\n", field.Tag, len(field.Data))
//	}
//	if err := db.Verify(); err != nil {
//	    log.Fatal(err)
//	}
//
// Reader.Verify and Writer.Finish are mandatory: the CBC stream does not
// authenticate itself, so the trailing HMAC is the only proof that no block
// was corrupted, reordered or truncated.
//
// # Security Considerations
//
// Protected Against:
//   - Offline brute-force (tunable key stretching iteration count)
//   - Tampering, truncation and field reordering (keyed HMAC)
//   - Field boundary leakage (random block padding)
//
// Not Protected Against:
//   - Memory dumps while key material is held in the session
//   - Side-channel attacks (timing, cache)
//   - Weak passphrases with low iteration counts
//
// # Higher Levels
//
// The field catalogs (DecodeHeaderField, DecodeRecordField) map raw field
// bytes to typed values, and the Database layer accumulates whole files
// into records, preserving unrecognized fields verbatim so that databases
// can be rewritten without losing information.
package pwsafer
