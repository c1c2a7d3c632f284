package fits

import (
	"fmt"
	"strconv"
	"strings"
)

// LogicalCard formats a logical keyword record.
func LogicalCard(key string, v bool, comment string) string {
	s := "F"
	if v {
		s = "T"
	}
	return fixedCard(key, s, comment)
}

// IntCard formats an integer keyword record.
func IntCard(key string, v int64, comment string) string {
	return fixedCard(key, strconv.FormatInt(v, 10), comment)
}

// FloatCard formats a real keyword record.
func FloatCard(key string, v float64, comment string) string {
	return fixedCard(key, strconv.FormatFloat(v, 'E', -1, 64), comment)
}

// StringCard formats a character string keyword record. Values shorter than
// eight characters are blank padded, as the standard requires.
func StringCard(key, v, comment string) string {
	quoted := "'" + fmt.Sprintf("%-8s", strings.ReplaceAll(v, "'", "''")) + "'"
	return formatCard(key, fmt.Sprintf("%-20s", quoted), comment)
}

// fixedCard right-justifies the value in columns 11-30.
func fixedCard(key, value, comment string) string {
	return formatCard(key, fmt.Sprintf("%20s", value), comment)
}

func formatCard(key, value, comment string) string {
	s := fmt.Sprintf("%-8s= %s", key, value)
	if comment != "" {
		s += " / " + comment
	}
	if len(s) > CardSize {
		s = s[:CardSize]
	}
	return fmt.Sprintf("%-80s", s)
}

// EncodeHeader joins card records, appends END and pads with blanks to a whole
// number of 2880-byte records.
func EncodeHeader(cards []string) ([]byte, error) {
	var b strings.Builder
	for i, c := range cards {
		if len(c) != CardSize {
			return nil, fmt.Errorf("card %d has length %d, want %d", i, len(c), CardSize)
		}
		b.WriteString(c)
	}
	b.WriteString(fmt.Sprintf("%-80s", "END"))

	out := []byte(b.String())
	if pad := len(out) % BlockSize; pad != 0 {
		out = append(out, []byte(strings.Repeat(" ", BlockSize-pad))...)
	}
	return out, nil
}
