package satoshi

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrTooManyDigitsAfterDecimalPoint is returned when an amount has more
	// fractional digits than its unit allows, i.e. it would contain
	// a fraction of a satoshi.
	ErrTooManyDigitsAfterDecimalPoint = errors.New("too many digits after decimal point")
	// ErrTooLarge is returned when an amount exceeds [MaxSatoshis] in
	// absolute value.
	ErrTooLarge = errors.New("amount too large")
)

// MaxSatoshis is the largest absolute number of satoshi an amount can hold,
// which is the supply cap of 21 million bitcoin.
const MaxSatoshis = 21_000_000 * 100_000_000

// maxDigits is the number of digits in [MaxSatoshis].
const maxDigits = 16

var maxSatoshis = decimal.NewFromInt(MaxSatoshis)

// Options specifies the units of an amount.
// The zero value of each field means "not specified".
type Options struct {
	// Unit sets both FromUnit and ToUnit.
	// It is overridden by the more specific fields.
	Unit Unit
	// FromUnit is the unit the constructor argument is expressed in.
	// Defaults to Unit, or BTC if Unit is not specified either.
	FromUnit Unit
	// ToUnit is the unit used by methods that do not take a unit,
	// such as [Amount.Decimal] and [Amount.String].
	// Defaults to Unit, or FromUnit if Unit is not specified either.
	ToUnit Unit
}

// units resolves the source and display units.
func (o Options) units() (from, to Unit, err error) {
	from = o.FromUnit.or(o.Unit).or(BTC)
	to = o.ToUnit.or(o.Unit).or(from)
	if err = from.check(); err != nil {
		return noUnit, noUnit, fmt.Errorf("source unit: %w", err)
	}
	if err = to.check(); err != nil {
		return noUnit, noUnit, fmt.Errorf("display unit: %w", err)
	}
	return from, to, nil
}

// Amount type represents a bitcoin amount as an exact integer number
// of satoshi, together with the unit the amount was supplied in and
// the unit it is displayed in.
// Its zero value corresponds to "0.0 BTC".
//
// Methods with a value receiver never modify the amount and are safe for
// concurrent use by multiple goroutines.
// [Amount.SetSatoshis] and [Amount.SetValue] require external synchronization.
type Amount struct {
	sats decimal.Decimal // number of satoshi, always an integer
	from Unit            // unit of the value the amount was created from
	unit Unit            // display unit
}

// newAmountUnsafe creates a new amount without checking the range.
// Use it only if you are absolutely sure that the arguments are valid.
func newAmountUnsafe(sats decimal.Decimal, from, unit Unit) Amount {
	return Amount{sats: sats, from: from, unit: unit}
}

// newAmountSafe creates a new amount and checks the range.
func newAmountSafe(sats decimal.Decimal, from, unit Unit) (Amount, error) {
	if sats.Abs().Cmp(maxSatoshis) > 0 {
		return Amount{}, fmt.Errorf("%w: %v sat is beyond ±%v sat", ErrTooLarge, sats, MaxSatoshis)
	}
	return newAmountUnsafe(sats, from, unit), nil
}

// toSatoshis returns the number of satoshi in amount d expressed in unit u.
// toSatoshis returns an error if the result is not an integer or has more
// integer digits than [MaxSatoshis].
// The size of the result is checked before it is built, so a short literal
// with a huge exponent such as "1e300000000" fails immediately.
func toSatoshis(d decimal.Decimal, u Unit) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.New(0, 0), nil
	}
	n := int64(d.NumDigits())
	exp := int64(d.Exponent()) + int64(u.Exponent())
	if n+exp > maxDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: more than %v integer digit(s) in sat", ErrTooLarge, maxDigits)
	}
	coef := d.Coefficient()
	if exp >= 0 {
		coef.Mul(coef, pow10(exp))
		return decimal.NewFromBigInt(coef, 0), nil
	}
	if -exp > n {
		return decimal.Decimal{}, fmt.Errorf("%w: more than %v fractional digit(s) in %v", ErrTooManyDigitsAfterDecimalPoint, u.Exponent(), u)
	}
	rem := new(big.Int)
	coef.QuoRem(coef, pow10(-exp), rem)
	if rem.Sign() != 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: more than %v fractional digit(s) in %v", ErrTooManyDigitsAfterDecimalPoint, u.Exponent(), u)
	}
	return decimal.NewFromBigInt(coef, 0), nil
}

// pow10 returns 10^n.
func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// trim returns d with trailing zeros removed from its fractional part.
func trim(d decimal.Decimal) decimal.Decimal {
	coef, exp := d.Coefficient(), d.Exponent()
	if coef.Sign() == 0 {
		return decimal.New(0, 0)
	}
	ten := big.NewInt(10)
	quo, rem := new(big.Int), new(big.Int)
	for exp < 0 {
		quo.QuoRem(coef, ten, rem)
		if rem.Sign() != 0 {
			break
		}
		coef.Set(quo)
		exp++
	}
	return decimal.NewFromBigInt(coef, exp)
}

// NewAmount returns an amount equal to the given decimal, expressed in
// the source unit of the options.
// See [Options] for the default units.
//
// NewAmount returns an error if:
//   - any of the units is unknown;
//   - the decimal has more significant digits after the decimal point
//     than the exponent of the source unit, for example 0.123456789 BTC;
//   - the absolute value of the result exceeds [MaxSatoshis].
func NewAmount(amount decimal.Decimal, opts Options) (Amount, error) {
	from, to, err := opts.units()
	if err != nil {
		return Amount{}, fmt.Errorf("resolving units: %w", err)
	}
	sats, err := toSatoshis(amount, from)
	if err != nil {
		return Amount{}, fmt.Errorf("converting amount: %w", err)
	}
	a, err := newAmountSafe(sats, from, to)
	if err != nil {
		return Amount{}, fmt.Errorf("converting amount: %w", err)
	}
	return a, nil
}

// MustNewAmount is like [NewAmount] but panics if the amount cannot be constructed.
// It simplifies safe initialization of global variables holding amounts.
func MustNewAmount(amount decimal.Decimal, opts Options) Amount {
	a, err := NewAmount(amount, opts)
	if err != nil {
		panic(fmt.Sprintf("NewAmount(%v, %+v) failed: %v", amount, opts, err))
	}
	return a
}

// NewAmountFromInt64 converts an integer, expressed in the source unit of
// the options, to an amount.
// See also constructor [NewAmountFromSatoshis].
func NewAmountFromInt64(amount int64, opts Options) (Amount, error) {
	return NewAmount(decimal.NewFromInt(amount), opts)
}

// NewAmountFromSatoshis converts a number of satoshi to an amount
// displayed in the given unit.
// See also methods [Amount.Satoshis] and [Amount.Int64].
func NewAmountFromSatoshis(sats int64, unit Unit) (Amount, error) {
	return NewAmountFromInt64(sats, Options{FromUnit: SAT, ToUnit: unit})
}

// NewAmountFromFloat64 converts a float, expressed in the source unit of
// the options, to an amount.
// The float is first converted to the shortest decimal that represents it
// exactly, so 0.1 is treated as 0.1 and not as 0.1000000000000000055511151231257827.
// See also method [Amount.Float64].
//
// NewAmountFromFloat64 returns an error if the float is a special value
// (NaN or Inf), or for any of the reasons listed in [NewAmount].
func NewAmountFromFloat64(amount float64, opts Options) (Amount, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Amount{}, fmt.Errorf("converting float: special value %v", amount)
	}
	a, err := NewAmount(decimal.NewFromFloat(amount), opts)
	if err != nil {
		return Amount{}, fmt.Errorf("converting float: %w", err)
	}
	return a, nil
}

// ParseAmount converts a decimal string, expressed in the source unit of
// the options, to an amount.
// An empty string is treated as zero.
// The string is validated immediately, so ParseAmount fails for the same
// inputs as [NewAmount].
func ParseAmount(amount string, opts Options) (Amount, error) {
	d := decimal.Zero
	if s := strings.TrimSpace(amount); s != "" {
		var err error
		d, err = decimal.NewFromString(s)
		if err != nil {
			return Amount{}, fmt.Errorf("parsing amount: %w", err)
		}
	}
	return NewAmount(d, opts)
}

// MustParseAmount is like [ParseAmount] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding amounts.
func MustParseAmount(amount string, opts Options) Amount {
	a, err := ParseAmount(amount, opts)
	if err != nil {
		panic(fmt.Sprintf("ParseAmount(%q, %+v) failed: %v", amount, opts, err))
	}
	return a
}

// Unit returns the display unit of the amount.
// See also method [Amount.WithUnit].
func (a Amount) Unit() Unit {
	return a.unit.or(a.FromUnit())
}

// FromUnit returns the unit the amount was created from.
// Amounts returned by arithmetic methods are created from [SAT].
func (a Amount) FromUnit() Unit {
	return a.from.or(BTC)
}

// WithUnit returns a copy of the amount with a different display unit.
// WithUnit returns an error if the unit is unknown.
func (a Amount) WithUnit(unit Unit) (Amount, error) {
	if err := unit.check(); err != nil {
		return Amount{}, fmt.Errorf("changing unit of %v: %w", a, err)
	}
	return newAmountUnsafe(a.sats, a.FromUnit(), unit), nil
}

// Satoshis returns the number of satoshi in the amount.
// See also constructor [NewAmountFromSatoshis].
func (a Amount) Satoshis() *big.Int {
	return a.sats.BigInt()
}

// Int64 returns the number of satoshi in the amount as an int64.
// The range of an amount always fits into an int64.
func (a Amount) Int64() int64 {
	return a.sats.IntPart()
}

// Float64 returns the nearest binary floating-point number to the amount
// in the display unit.
// This conversion may lose data and should only be used for presentation
// purposes such as charts.
// The ok flag reports whether the float represents the amount exactly.
func (a Amount) Float64() (f float64, ok bool) {
	return a.Decimal().Float64()
}

// ToUnit returns the exact value of the amount in the given unit,
// with trailing zeros removed.
// ToUnit returns an error if the unit is unknown.
func (a Amount) ToUnit(unit Unit) (decimal.Decimal, error) {
	if err := unit.check(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", a, err)
	}
	return a.toUnit(unit), nil
}

func (a Amount) toUnit(unit Unit) decimal.Decimal {
	return trim(a.sats.Shift(-int32(unit.Exponent())))
}

// Decimal returns the value of the amount in its display unit.
// See also method [Amount.ToUnit].
func (a Amount) Decimal() decimal.Decimal {
	return a.toUnit(a.Unit())
}

// Source returns the value of the amount in the unit it was created from.
// See also methods [Amount.FromUnit] and [Amount.SetValue].
func (a Amount) Source() decimal.Decimal {
	return a.toUnit(a.FromUnit())
}

// ToBTC returns the value of the amount in bitcoin.
func (a Amount) ToBTC() decimal.Decimal {
	return a.toUnit(BTC)
}

// ToMBTC returns the value of the amount in millibitcoin.
func (a Amount) ToMBTC() decimal.Decimal {
	return a.toUnit(MBTC)
}

// ToUBTC returns the value of the amount in microbitcoin (bits).
func (a Amount) ToUBTC() decimal.Decimal {
	return a.toUnit(UBTC)
}

// ToUnitString returns the value of the amount in the given unit as a
// string in plain decimal notation.
// The result never uses an exponent, has no trailing zeros, and always
// contains a decimal point:
//
//	0.00000001
//	1.0
//	-1087.63
//
// ToUnitString returns an error if the unit is unknown.
func (a Amount) ToUnitString(unit Unit) (string, error) {
	if err := unit.check(); err != nil {
		return "", fmt.Errorf("formatting %v: %w", a, err)
	}
	return a.toUnitString(unit), nil
}

func (a Amount) toUnitString(unit Unit) string {
	s := a.toUnit(unit).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// DecimalString returns the value of the amount in its display unit
// as a string in plain decimal notation.
// See also method [Amount.ToUnitString].
func (a Amount) DecimalString() string {
	return a.toUnitString(a.Unit())
}

// SetSatoshis replaces the value of the amount with the given number
// of satoshi. A nil value resets the amount to zero.
// The units of the amount are not changed.
//
// SetSatoshis returns an error and leaves the amount unchanged if the
// absolute value exceeds [MaxSatoshis].
func (a *Amount) SetSatoshis(sats *big.Int) error {
	d := decimal.Zero
	if sats != nil {
		d = decimal.NewFromBigInt(sats, 0)
	}
	b, err := newAmountSafe(d, a.FromUnit(), a.Unit())
	if err != nil {
		return fmt.Errorf("setting satoshis: %w", err)
	}
	*a = b
	return nil
}

// SetValue replaces the value of the amount with the given decimal,
// expressed in [Amount.FromUnit]. The zero decimal resets the amount to zero.
// The units of the amount are not changed.
//
// SetValue returns an error and leaves the amount unchanged for the same
// reasons as [NewAmount].
func (a *Amount) SetValue(value decimal.Decimal) error {
	from := a.FromUnit()
	sats, err := toSatoshis(value, from)
	if err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	b, err := newAmountSafe(sats, from, a.Unit())
	if err != nil {
		return fmt.Errorf("setting value: %w", err)
	}
	*a = b
	return nil
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a Amount) Sign() int {
	return a.sats.Sign()
}

// IsZero returns:
//
//	true  if a = 0
//	false otherwise
func (a Amount) IsZero() bool {
	return a.sats.IsZero()
}

// IsNeg returns:
//
//	true  if a < 0
//	false otherwise
func (a Amount) IsNeg() bool {
	return a.sats.IsNegative()
}

// IsPos returns:
//
//	true  if a > 0
//	false otherwise
func (a Amount) IsPos() bool {
	return a.sats.IsPositive()
}

// Abs returns the absolute value of the amount.
func (a Amount) Abs() Amount {
	return newAmountUnsafe(a.sats.Abs(), a.from, a.unit)
}

// Neg returns an amount with the opposite sign.
func (a Amount) Neg() Amount {
	return newAmountUnsafe(a.sats.Neg(), a.from, a.unit)
}

// Add returns the sum of amounts a and b.
// The result is created from [SAT] and has the display unit of amount a.
//
// Add returns an error if the absolute value of the result exceeds [MaxSatoshis].
func (a Amount) Add(b Amount) (Amount, error) {
	c, err := newAmountSafe(a.sats.Add(b.sats), SAT, a.Unit())
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v + %v]: %w", a, b, err)
	}
	return c, nil
}

// Sub returns the difference between amounts a and b.
// The result is created from [SAT] and has the display unit of amount a.
//
// Sub returns an error if the absolute value of the result exceeds [MaxSatoshis].
func (a Amount) Sub(b Amount) (Amount, error) {
	c, err := newAmountSafe(a.sats.Sub(b.sats), SAT, a.Unit())
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v - %v]: %w", a, b, err)
	}
	return c, nil
}

// Mul returns an amount whose number of satoshi is the product of the
// numbers of satoshi in amounts a and b.
// The result is created from [SAT] and has the display unit of amount a.
// For example, 0.002 BTC * 0.001 BTC = 200000 sat * 100000 sat = 200 BTC.
// To scale an amount by a dimensionless factor, multiply its [Amount.Decimal]
// and construct a new amount instead.
//
// Mul returns an error if the absolute value of the result exceeds [MaxSatoshis].
func (a Amount) Mul(b Amount) (Amount, error) {
	c, err := newAmountSafe(a.sats.Mul(b.sats), SAT, a.Unit())
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v * %v]: %w", a, b, err)
	}
	return c, nil
}

// Cmp compares amounts and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
//
// Units do not take part in the comparison.
// See also methods [Amount.CmpAbs], [Amount.CmpSatoshis].
func (a Amount) Cmp(b Amount) int {
	return a.sats.Cmp(b.sats)
}

// CmpAbs compares absolute values of amounts and returns:
//
//	-1 if |a| < |b|
//	 0 if |a| = |b|
//	+1 if |a| > |b|
func (a Amount) CmpAbs(b Amount) int {
	return a.sats.Abs().Cmp(b.sats.Abs())
}

// CmpSatoshis compares the amount with a number of satoshi and returns:
//
//	-1 if a < sats
//	 0 if a = sats
//	+1 if a > sats
func (a Amount) CmpSatoshis(sats int64) int {
	return a.sats.Cmp(decimal.NewFromInt(sats))
}

// Equal returns true if amounts hold the same number of satoshi.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Min returns the smaller amount.
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger amount.
func (a Amount) Max(b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// String implements the [fmt.Stringer] interface and returns a string
// representation of the amount in its display unit.
// See also methods [Amount.DecimalString], [Amount.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Amount) String() string {
	return a.DecimalString() + " " + a.Unit().Code()
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example        | Description             |
//	| ------ | -------------- | ----------------------- |
//	| %s, %v | 0.001 BTC      | Amount and unit         |
//	| %q     | "0.001 BTC"    | Quoted amount and unit  |
//	| %f     | 0.001          | Amount                  |
//	| %d     | 100000         | Amount in satoshi       |
//	| %c     | BTC            | Unit                    |
//
// The '-' format flag can be used with all verbs.
// The '+', ' ', '0' format flags can be used with %f and %d.
//
// Precision is only supported for the %f verb and rounds half away from zero.
// By default, %f prints the amount as [Amount.DecimalString] does.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Amount) Format(state fmt.State, verb rune) {
	var text string
	numeric := false
	switch verb {
	case 's', 'S', 'v', 'V':
		text = a.String()
	case 'q', 'Q':
		text = strconv.Quote(a.String())
	case 'c', 'C':
		text = a.Unit().Code()
	case 'f', 'F':
		numeric = true
		if p, ok := state.Precision(); ok {
			text = a.Decimal().StringFixed(int32(p))
		} else {
			text = a.DecimalString()
		}
	case 'd', 'D':
		numeric = true
		text = a.sats.String()
	default:
		//nolint:errcheck
		fmt.Fprintf(state, "%%!%c(satoshi.Amount=%s)", verb, a.String())
		return
	}

	// Arithmetic sign
	if numeric && !strings.HasPrefix(text, "-") {
		switch {
		case state.Flag('+'):
			text = "+" + text
		case state.Flag(' '):
			text = " " + text
		}
	}

	//nolint:errcheck
	state.Write([]byte(pad(state, text, numeric)))
}

// parseText parses a string in the format produced by [Amount.String].
// The unit may be omitted, in which case the amount is read as bitcoin.
func parseText(s string) (Amount, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return ParseAmount("", Options{})
	case 1:
		return ParseAmount(fields[0], Options{})
	case 2:
		u, err := ParseUnit(fields[1])
		if err != nil {
			return Amount{}, err
		}
		return ParseAmount(fields[0], Options{Unit: u})
	default:
		return Amount{}, fmt.Errorf("invalid format %q", s)
	}
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// The text must be in the format produced by [Amount.MarshalText].
// The unit of the text becomes both the source and the display unit,
// so after a round trip [Amount.FromUnit] equals [Amount.Unit] and
// [Amount.Source] may differ from the value before encoding.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *Amount) UnmarshalText(text []byte) error {
	b, err := parseText(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	*a = b
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Amount.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// It accepts a string in the format produced by [Amount.MarshalJSON],
// a JSON number in bitcoin, or null, which resets the amount to zero.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *Amount) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		*a = newAmountUnsafe(decimal.Zero, a.from, a.unit)
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return a.UnmarshalText(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// The amount is encoded as a string, so no precision is lost by decoders
// that parse JSON numbers as floats.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// Scan implements the [sql.Scanner] interface.
// The value must be a number of satoshi. A null value is treated as zero.
// The display unit of the amount is preserved.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (a *Amount) Scan(value any) error {
	var err error
	d := decimal.Zero
	switch value := value.(type) {
	case int64:
		d = decimal.NewFromInt(value)
	case string:
		d, err = decimal.NewFromString(value)
	case []byte:
		d, err = decimal.NewFromString(string(value))
	case nil:
		// null is zero
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err == nil {
		var b Amount
		b, err = NewAmount(d, Options{FromUnit: SAT, ToUnit: a.Unit()})
		if err == nil {
			*a = b
		}
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Amount{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
// The amount is stored as a number of satoshi.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (a Amount) Value() (driver.Value, error) {
	return a.Int64(), nil
}
