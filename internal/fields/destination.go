package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// Destination is an address with an optional destination tag. Name is a display
// annotation resolved by the caller; it is never serialized.
type Destination struct {
	Address string  `json:"address"`
	Tag     *uint32 `json:"tag,omitempty"`
	Name    string  `json:"-"`
}

// Loose is the input accepted by ParseDestination: a Destination or an Address
// string, which may carry a tag as "address:tag".
type Loose interface {
	isLooseDestination()
}

// Address is a bare address, optionally suffixed with ":tag".
type Address string

func (Address) isLooseDestination()     {}
func (Destination) isLooseDestination() {}

// Tag returns a pointer to t, for building a Destination literal.
func Tag(t uint32) *uint32 {
	return &t
}

// ParseDestination validates a destination. The returned value never carries a
// Name; names are attached separately.
func ParseDestination(loose Loose) (Destination, error) {
	switch v := loose.(type) {
	case Destination:
		if _, err := Account(v.Address); err != nil {
			return Destination{}, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
		}
		dest := Destination{Address: v.Address}
		if v.Tag != nil {
			dest.Tag = Tag(*v.Tag)
		}
		return dest, nil
	case Address:
		address, tagText, hasTag := strings.Cut(string(v), ":")
		dest := Destination{Address: address}
		if hasTag {
			tag, err := ParseTag(tagText)
			if err != nil {
				return Destination{}, err
			}
			dest.Tag = &tag
		}
		return ParseDestination(dest)
	case nil:
		return Destination{}, fmt.Errorf("%w: no value", ErrInvalidDestination)
	default:
		return Destination{}, fmt.Errorf("%w: unsupported input %T", ErrInvalidDestination, loose)
	}
}

// ParseTag parses a destination tag. Only base-10 digits are accepted and leading
// zeros are rejected so that every tag has a single textual form.
func ParseTag(s string) (uint32, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty tag", ErrInvalidDestination)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: tag %q is not numeric", ErrInvalidDestination, s)
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("%w: tag %q has leading zeros", ErrInvalidDestination, s)
	}
	tag, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: tag %q out of range", ErrInvalidDestination, s)
	}
	return uint32(tag), nil
}

// String renders the destination as "address" or "address:tag".
func (d Destination) String() string {
	if d.Tag == nil {
		return d.Address
	}
	return d.Address + ":" + strconv.FormatUint(uint64(*d.Tag), 10)
}
