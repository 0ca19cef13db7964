package satoshi

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

//go:generate go run scripts/unit/codegen.go

// Unit type represents a denomination of bitcoin.
// The zero value indicates an unspecified unit and is rejected by all
// conversions.
//
// Unit is implemented as an integer index into an in-memory array that
// stores the properties of each denomination, such as code and exponent.
// The exponent is the number of decimal digits a value must be shifted
// to the left to be counted in satoshi: [SAT] has exponent 0, [BTC] has
// exponent 8.
//
// When persisting a unit, use the code returned by the [Unit.Code] method,
// rather than the integer index, as mapping between index and a particular
// unit may change in future versions.
type Unit uint8

// ErrUnknownUnit is returned when a unit is not present in the unit table.
var ErrUnknownUnit = errors.New("unknown unit")

// ParseUnit converts a string to unit.
// The input is case-insensitive and may be a code or a common spelling:
//
//	BTC
//	mbtc
//	bits
//	sats
//
// ParseUnit returns an error if the string does not represent a known unit.
func ParseUnit(unit string) (Unit, error) {
	u, ok := unitLookup[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return noUnit, fmt.Errorf("%w %q", ErrUnknownUnit, unit)
	}
	return u, nil
}

// MustParseUnit is like [ParseUnit] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding units.
func MustParseUnit(unit string) Unit {
	u, err := ParseUnit(unit)
	if err != nil {
		panic(fmt.Sprintf("ParseUnit(%q) failed: %v", unit, err))
	}
	return u
}

// valid returns true if the unit is present in the unit table.
func (u Unit) valid() bool {
	return u != noUnit && int(u) < len(exponentLookup)
}

// check returns an error if the unit is not present in the unit table.
func (u Unit) check() error {
	if !u.valid() {
		return fmt.Errorf("%w %v", ErrUnknownUnit, uint8(u))
	}
	return nil
}

// or returns u, or v if u is unspecified.
func (u Unit) or(v Unit) Unit {
	if u == noUnit {
		return v
	}
	return u
}

// Code returns the short symbol of the unit, for example "BTC" or "mBTC".
// Code returns an empty string for unknown units.
func (u Unit) Code() string {
	if !u.valid() {
		return ""
	}
	return codeLookup[u]
}

// Name returns the full name of the unit, for example "millibitcoin".
func (u Unit) Name() string {
	if !u.valid() {
		return ""
	}
	return nameLookup[u]
}

// Exponent returns the number of decimal digits between the unit and
// a satoshi, so that 1 unit = 10^Exponent satoshi.
// Exponent returns -1 for unknown units.
func (u Unit) Exponent() int {
	if !u.valid() {
		return -1
	}
	return int(exponentLookup[u])
}

// String method implements the [fmt.Stringer] interface and returns
// the code of the unit.
// See also method [Unit.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u Unit) String() string {
	if !u.valid() {
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
	return u.Code()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseUnit].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (u *Unit) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", noUnit, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Unit.Code].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (u Unit) MarshalJSON() ([]byte, error) {
	if err := u.check(); err != nil {
		return nil, fmt.Errorf("marshaling %T: %w", u, err)
	}
	code := u.Code()
	text := make([]byte, 0, len(code)+2)
	text = append(text, '"')
	text = append(text, code...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseUnit].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (u *Unit) UnmarshalText(text []byte) error {
	var err error
	*u, err = ParseUnit(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", noUnit, err)
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
// See also method [Unit.Code].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	if err := u.check(); err != nil {
		return nil, fmt.Errorf("marshaling %T: %w", u, err)
	}
	return []byte(u.Code()), nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (u *Unit) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*u, err = ParseUnit(value)
	case []byte:
		*u, err = ParseUnit(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values", noUnit)
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, noUnit, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (u Unit) Value() (driver.Value, error) {
	if err := u.check(); err != nil {
		return nil, err
	}
	return u.Code(), nil
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb       | Example | Description |
//	| ---------- | ------- | ----------- |
//	| %c, %s, %v | mBTC    | Unit        |
//	| %q         | "mBTC"  | Quoted unit |
//
// The '-' format flag can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (u Unit) Format(state fmt.State, verb rune) {
	code := u.String()

	// Opening and closing quotes
	quote := ""
	if verb == 'q' || verb == 'Q' {
		quote = `"`
	}
	text := quote + code + quote

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'c', 'C':
		state.Write([]byte(pad(state, text, false)))
	default:
		state.Write([]byte("%!"))
		state.Write([]byte{byte(verb)})
		state.Write([]byte("(satoshi.Unit="))
		state.Write([]byte(text))
		state.Write([]byte(")"))
	}
}

// pad returns the text padded with spaces to the width of the state.
// If zeros is true and the '0' flag is set, the text is padded with
// leading zeros placed after the sign.
func pad(state fmt.State, text string, zeros bool) string {
	w, ok := state.Width()
	n := len([]rune(text))
	if !ok || w <= n {
		return text
	}
	fill := w - n
	switch {
	case state.Flag('-'):
		return text + strings.Repeat(" ", fill)
	case zeros && state.Flag('0'):
		sign := ""
		if text != "" && (text[0] == '-' || text[0] == '+' || text[0] == ' ') {
			sign, text = text[:1], text[1:]
		}
		return sign + strings.Repeat("0", fill) + text
	default:
		return strings.Repeat(" ", fill) + text
	}
}
