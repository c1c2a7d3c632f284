// Package fits implements the parts of the FITS standard needed to read and
// write random-groups primary HDUs: 2880-byte records of 80-character header
// cards followed by big-endian group data.
package fits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/uvrip/internal/utils"
)

// FITS record geometry.
const (
	BlockSize     = 2880
	CardSize      = 80
	CardsPerBlock = BlockSize / CardSize
)

// ErrFormat is returned for files that are not well-formed FITS or do not
// carry the structure this package expects.
var ErrFormat = errors.New("fits format error")

// Card is one 80-character header record.
type Card struct {
	Key      string
	Value    string // value field with the comment removed; strings keep their quotes
	Comment  string
	HasValue bool
}

// Header is the ordered list of cards of a primary HDU.
type Header struct {
	cards []Card
	index map[string]int
	size  int64
}

// ReadHeader reads header records from offset 0 until the END card.
func ReadHeader(r utils.ReaderAt) (*Header, error) {
	buf := utils.GetBuffer(BlockSize)
	defer utils.ReleaseBuffer(buf)

	h := &Header{index: make(map[string]int)}
	for block := 0; block < utils.MaxHeaderBlocks; block++ {
		if err := utils.ReadFullAt(r, buf, int64(block)*BlockSize); err != nil {
			if block == 0 {
				return nil, utils.WrapError("header read failed", err)
			}
			return nil, fmt.Errorf("%w: END card not found after %d header blocks: %v", ErrFormat, block, err)
		}

		for i := 0; i < CardsPerBlock; i++ {
			card := ParseCard(string(buf[i*CardSize : (i+1)*CardSize]))
			if card.Key == "END" {
				h.size = int64(block+1) * BlockSize
				return h, nil
			}
			h.add(card)
		}
	}

	return nil, fmt.Errorf("%w: END card not found within %d header blocks", ErrFormat, utils.MaxHeaderBlocks)
}

// NewHeader builds a header from already parsed cards.
func NewHeader(cards []Card) *Header {
	h := &Header{index: make(map[string]int)}
	for _, c := range cards {
		h.add(c)
	}
	h.size = int64((len(cards)+1+CardsPerBlock-1)/CardsPerBlock) * BlockSize
	return h
}

func (h *Header) add(c Card) {
	if _, seen := h.index[c.Key]; !seen && c.HasValue {
		h.index[c.Key] = len(h.cards)
	}
	h.cards = append(h.cards, c)
}

// ParseCard splits a raw header record into keyword, value and comment.
// Records shorter than 80 characters are treated as blank padded.
func ParseCard(raw string) Card {
	if len(raw) < CardSize {
		raw += strings.Repeat(" ", CardSize-len(raw))
	}
	raw = raw[:CardSize]

	card := Card{Key: strings.TrimSpace(raw[:8])}
	if raw[8:10] != "= " {
		card.Comment = strings.TrimSpace(raw[8:])
		return card
	}

	card.HasValue = true
	field := raw[10:]
	trimmed := strings.TrimLeft(field, " ")
	if strings.HasPrefix(trimmed, "'") {
		end := closingQuote(trimmed)
		card.Value = trimmed[:end]
		rest := strings.TrimSpace(trimmed[end:])
		card.Comment = strings.TrimSpace(strings.TrimPrefix(rest, "/"))
		return card
	}

	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		card.Value = strings.TrimSpace(field[:slash])
		card.Comment = strings.TrimSpace(field[slash+1:])
	} else {
		card.Value = strings.TrimSpace(field)
	}
	return card
}

// closingQuote returns the index just past the quote that closes the string
// starting at s[0]. Doubled quotes are an escaped quote, not a terminator.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// Cards returns the header cards in declaration order, END excluded.
func (h *Header) Cards() []Card {
	return h.cards
}

// Size returns the header length in bytes including padding.
func (h *Header) Size() int64 {
	return h.size
}

// Has reports whether a keyword with a value is present.
func (h *Header) Has(key string) bool {
	_, ok := h.index[key]
	return ok
}

func (h *Header) lookup(key string) (Card, bool) {
	i, ok := h.index[key]
	if !ok {
		return Card{}, false
	}
	return h.cards[i], true
}

// String returns the string value of key. Quotes are removed, doubled quotes
// unescaped and trailing blanks trimmed. Non-string values are returned as
// written in the card.
func (h *Header) String(key string) (string, bool, error) {
	card, ok := h.lookup(key)
	if !ok {
		return "", false, nil
	}
	v := card.Value
	if !strings.HasPrefix(v, "'") {
		return v, true, nil
	}
	if len(v) < 2 || !strings.HasSuffix(v, "'") {
		return "", true, fmt.Errorf("%w: unterminated string value for %s", ErrFormat, key)
	}
	v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	return strings.TrimRight(v, " "), true, nil
}

// Int returns the integer value of key.
func (h *Header) Int(key string) (int64, bool, error) {
	card, ok := h.lookup(key)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(card.Value, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s is not an integer: %q", ErrFormat, key, card.Value)
	}
	return v, true, nil
}

// Float returns the real value of key. Fortran D exponents are accepted.
func (h *Header) Float(key string) (float64, bool, error) {
	card, ok := h.lookup(key)
	if !ok {
		return 0, false, nil
	}
	s := strings.NewReplacer("D", "E", "d", "e").Replace(card.Value)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s is not a real number: %q", ErrFormat, key, card.Value)
	}
	return v, true, nil
}

// Bool returns the logical value of key.
func (h *Header) Bool(key string) (bool, bool, error) {
	card, ok := h.lookup(key)
	if !ok {
		return false, false, nil
	}
	switch card.Value {
	case "T":
		return true, true, nil
	case "F":
		return false, true, nil
	default:
		return false, true, fmt.Errorf("%w: %s is not a logical: %q", ErrFormat, key, card.Value)
	}
}

// FloatOr returns the real value of key, or def when the key is absent.
func (h *Header) FloatOr(key string, def float64) (float64, error) {
	v, ok, err := h.Float(key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}
