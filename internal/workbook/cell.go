package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type carried by a CellValue.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBoolean
	KindError
	KindTemporal
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindError:
		return "error"
	case KindTemporal:
		return "date/time"
	}
	return "unknown"
}

// CellValue is a tagged union over the scalar types a spreadsheet cell can
// hold. The zero value is an empty cell.
//
// Temporal values are Excel serial day numbers: day 0 is 1899-12-30, and
// serials above 60 carry the historical off-by-one from Excel treating 1900
// as a leap year (day 60 names the nonexistent 1900-02-29). Both string
// projections subtract one day from serials above 60 to compensate.
type CellValue struct {
	Kind Kind
	// Str holds the text for KindText and the message for KindError.
	Str string
	// Int holds the value for KindInteger.
	Int int64
	// Num holds the value for KindFloat and the serial for KindTemporal.
	Num float64
	// Bool holds the value for KindBoolean.
	Bool bool
}

func Empty() CellValue                { return CellValue{} }
func Text(s string) CellValue         { return CellValue{Kind: KindText, Str: s} }
func Integer(i int64) CellValue       { return CellValue{Kind: KindInteger, Int: i} }
func Float(f float64) CellValue       { return CellValue{Kind: KindFloat, Num: f} }
func Boolean(b bool) CellValue        { return CellValue{Kind: KindBoolean, Bool: b} }
func ErrorValue(msg string) CellValue { return CellValue{Kind: KindError, Str: msg} }
func Temporal(serial float64) CellValue {
	return CellValue{Kind: KindTemporal, Num: serial}
}

// IsEmpty reports whether the cell holds no value.
func (v CellValue) IsEmpty() bool { return v.Kind == KindEmpty }

// IsNumeric reports whether the cell holds an integer or float.
func (v CellValue) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// Raw returns the exact, unformatted projection of the value, suitable for
// clipboard and export output. Integer(n).Raw() parses back to n via
// strconv.ParseInt, and likewise Float via strconv.ParseFloat.
func (v CellValue) Raw() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindText:
		return v.Str
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatFloat(v.Num, 'f', 0, 64)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindError:
		return "#" + v.Str
	case KindTemporal:
		return v.temporalString()
	}
	return ""
}

// Display returns the human-oriented projection: thousands separators for
// numbers, lowercase booleans, and formatted dates.
func (v CellValue) Display() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindText:
		return v.Str
	case KindInteger:
		return groupThousands(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		var s string
		if v.Num == float64(int64(v.Num)) {
			s = strconv.FormatFloat(v.Num, 'f', 0, 64)
		} else {
			s = strconv.FormatFloat(v.Num, 'f', 2, 64)
		}
		if dot := strings.IndexByte(s, '.'); dot >= 0 {
			return groupThousands(s[:dot]) + s[dot:]
		}
		return groupThousands(s)
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindError:
		return "ERROR: " + v.Str
	case KindTemporal:
		return v.temporalString()
	}
	return ""
}

// excelEpoch is serial day zero of the 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func (v CellValue) temporalString() string {
	days := int64(v.Num)
	// Serial 60 is the fictitious 1900-02-29; later serials are shifted by
	// one day relative to the real calendar.
	if days > 60 {
		days--
	}
	date := excelEpoch.AddDate(0, 0, int(days))

	frac := v.Num - float64(int64(v.Num))
	if frac < 0 {
		frac = -frac
	}
	if frac < 1e-6 {
		return date.Format("2006-01-02")
	}
	total := int64(frac*86400.0 + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%s %02d:%02d:%02d", date.Format("2006-01-02"), h, m, s)
}

// groupThousands inserts comma separators into a decimal integer string,
// which may carry a leading minus sign.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	n := len(digits)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
