package flashcard

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// Box is a Leitner proficiency tier. 1 holds new or struggling cards, 3 holds mastered ones.
type Box int

const (
	MinBox Box = 1
	MaxBox Box = 3
)

// Boxes lists every valid box in ascending order.
var Boxes = []Box{1, 2, 3}

var reviewIntervalDays = map[Box]int{
	1: 1,
	2: 3,
	3: 7,
}

func (b Box) Valid() bool {
	return b >= MinBox && b <= MaxBox
}

// IntervalDays returns how many days must pass after a review before a card in this box is due again.
func (b Box) IntervalDays() int {
	return reviewIntervalDays[b]
}

// Next returns the box a correctly answered card moves to.
func (b Box) Next() Box {
	if b >= MaxBox {
		return MaxBox
	}
	return b + 1
}

func ParseBox(s string) (Box, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBox, s)
	}
	box := Box(n)
	if !box.Valid() {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidBox, n, MinBox, MaxBox)
	}
	return box, nil
}

// String implements pflag.Value.
func (b *Box) String() string {
	if b == nil {
		return ""
	}
	return strconv.Itoa(int(*b))
}

// Set implements pflag.Value.
func (b *Box) Set(v string) error {
	box, err := ParseBox(v)
	if err != nil {
		return err
	}
	*b = box
	return nil
}

// Type implements pflag.Value.
func (b *Box) Type() string {
	return "box"
}

var (
	_ pflag.Value = (*Box)(nil)
)
