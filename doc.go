/*
Package satoshi implements bitcoin amounts counted in satoshi.
It keeps every amount as an exact integer number of satoshi and converts
to and from larger denominations by shifting decimal digits, so no
floating-point rounding ever takes place.

# Features

  - Exact conversion between satoshi, uBTC, mBTC and BTC
  - Validation of precision and of the 21 million bitcoin supply cap
  - Arithmetic and comparison operations between amounts
  - Plain decimal formatting that never uses exponential notation
  - Conversion to and from [github.com/shopspring/decimal] and
    [github.com/govalues/decimal] values
  - Encoding as text, JSON, and SQL values

# Representation

An [Amount] consists of three parts: a number of satoshi held in an
arbitrary-precision decimal, the [Unit] it was created from, and the
[Unit] it is displayed in.
The Unit type is implemented as an integer index into an in-memory array
containing information such as code and exponent.

# Construction

Amounts are created with [NewAmount], [ParseAmount], [NewAmountFromInt64],
[NewAmountFromFloat64], [NewAmountFromFixed], and [NewAmountFromSatoshis].
The units are given by [Options]; by default an amount is created from
and displayed in [BTC].
Missing input, such as an empty string, is treated as zero.

# Errors

Constructors validate their input immediately and return errors that
wrap one of the following:

  - [ErrUnknownUnit] if a unit is not present in the unit table;
  - [ErrTooManyDigitsAfterDecimalPoint] if the input would contain
    a fraction of a satoshi, for example 0.123456789 BTC;
  - [ErrTooLarge] if the result exceeds 21 million bitcoin in absolute value.

Arithmetic operations and setters check the supply cap as well.
Use [errors.Is] to tell the errors apart.
*/
package satoshi
