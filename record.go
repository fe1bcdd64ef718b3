package pwsafer

// RecordType identifies a record field.
type RecordType byte

// Record field tags. 0x0b and 0x1a are reserved by the format.
const (
	RecordUUID                 RecordType = 0x01
	RecordGroup                RecordType = 0x02
	RecordTitle                RecordType = 0x03
	RecordUsername             RecordType = 0x04
	RecordNotes                RecordType = 0x05
	RecordPassword             RecordType = 0x06
	RecordCreationTime         RecordType = 0x07
	RecordPasswordModTime      RecordType = 0x08
	RecordLastAccessTime       RecordType = 0x09
	RecordPasswordExpiryTime   RecordType = 0x0a
	RecordLastModTime          RecordType = 0x0c
	RecordURL                  RecordType = 0x0d
	RecordAutotype             RecordType = 0x0e
	RecordPasswordHistory      RecordType = 0x0f
	RecordPasswordPolicy       RecordType = 0x10
	RecordPasswordExpiryDays   RecordType = 0x11
	RecordRunCommand           RecordType = 0x12
	RecordDoubleClickAction    RecordType = 0x13
	RecordEmail                RecordType = 0x14
	RecordProtected            RecordType = 0x15
	RecordOwnSymbols           RecordType = 0x16
	RecordShiftDoubleClick     RecordType = 0x17
	RecordPasswordPolicyName   RecordType = 0x18
	RecordKeyboardShortcut     RecordType = 0x19
	RecordTwoFactorKey         RecordType = 0x1b
	RecordCreditCardNumber     RecordType = 0x1c
	RecordCreditCardExpiration RecordType = 0x1d
	RecordCreditCardVerifValue RecordType = 0x1e
	RecordCreditCardPIN        RecordType = 0x1f
	RecordQRCode               RecordType = 0x20
	RecordEnd                  RecordType = 0xff
)

var recordCatalog = map[byte]catalogEntry{
	byte(RecordUUID):                 {"uuid", KindUUID},
	byte(RecordGroup):                {"group", KindText},
	byte(RecordTitle):                {"title", KindText},
	byte(RecordUsername):             {"username", KindText},
	byte(RecordNotes):                {"notes", KindText},
	byte(RecordPassword):             {"password", KindText},
	byte(RecordCreationTime):         {"creation-time", KindTime},
	byte(RecordPasswordModTime):      {"password-modification-time", KindTime},
	byte(RecordLastAccessTime):       {"last-access-time", KindTime},
	byte(RecordPasswordExpiryTime):   {"password-expiry-time", KindTime},
	byte(RecordLastModTime):          {"last-modification-time", KindTime},
	byte(RecordURL):                  {"url", KindText},
	byte(RecordAutotype):             {"autotype", KindText},
	byte(RecordPasswordHistory):      {"password-history", KindText},
	byte(RecordPasswordPolicy):       {"password-policy", KindText},
	byte(RecordPasswordExpiryDays):   {"password-expiry-interval", KindWord},
	byte(RecordRunCommand):           {"run-command", KindText},
	byte(RecordDoubleClickAction):    {"double-click-action", KindShort},
	byte(RecordEmail):                {"email", KindText},
	byte(RecordProtected):            {"protected", KindByte},
	byte(RecordOwnSymbols):           {"own-symbols", KindText},
	byte(RecordShiftDoubleClick):     {"shift-double-click-action", KindShort},
	byte(RecordPasswordPolicyName):   {"password-policy-name", KindText},
	byte(RecordKeyboardShortcut):     {"keyboard-shortcut", KindWord},
	byte(RecordTwoFactorKey):         {"two-factor-key", KindRaw},
	byte(RecordCreditCardNumber):     {"credit-card-number", KindText},
	byte(RecordCreditCardExpiration): {"credit-card-expiration", KindText},
	byte(RecordCreditCardVerifValue): {"credit-card-verification", KindText},
	byte(RecordCreditCardPIN):        {"credit-card-pin", KindText},
	byte(RecordQRCode):               {"qr-code", KindText},
	byte(RecordEnd):                  {"end-of-record", KindEnd},
}

// DecodeRecordField decodes one record field payload. Unrecognized tags
// decode to a KindRaw value carrying the payload unchanged.
func DecodeRecordField(tag byte, data []byte) (Value, error) {
	entry, ok := recordCatalog[tag]
	if !ok {
		entry = catalogEntry{kind: KindRaw}
	}
	return decodeValue(tag, entry, data)
}
