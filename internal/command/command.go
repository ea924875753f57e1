// Package command defines the durable wire format of this store: the
// Command sum type and its encoding to and from a single line of text.
//
// A Command is one of two variants, Set or Remove, exactly as the
// original source's serde-tagged Rust enum defines them. Go has no sum
// types, so Command is a struct wide enough to hold either variant's
// fields, with Op naming which one applies; Encode and Decode go through
// one wire struct per variant, so only the fields belonging to Op are
// ever written, and the JSON shape still matches the spec's
// {"op":"Set","key":"...","value":"..."} / {"op":"Remove","key":"..."}
// layout exactly.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/cmsd2/kvs/pkg/errors"
)

// Op names which Command variant a record holds.
type Op string

const (
	OpSet    Op = "Set"
	OpRemove Op = "Remove"
)

// Command is a tagged union over Set{Key,Value} and Remove{Key}.
type Command struct {
	Op    Op
	Key   string
	Value string
}

// Set builds a Set command.
func Set(key, value string) Command {
	return Command{Op: OpSet, Key: key, Value: value}
}

// Remove builds a Remove command.
func Remove(key string) Command {
	return Command{Op: OpRemove, Key: key}
}

// wireSet and wireRemove mirror the two shapes a record may take on the
// wire; only one of them is ever produced or consumed at a time.
type wireSet struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wireRemove struct {
	Op  Op     `json:"op"`
	Key string `json:"key"`
}

type wireProbe struct {
	Op Op `json:"op"`
}

// Encode produces a single line of text with no embedded newline
// representing c. The result is the inverse of Decode.
func Encode(c Command) (string, error) {
	var (
		b   []byte
		err error
	)
	switch c.Op {
	case OpSet:
		b, err = json.Marshal(wireSet{Op: OpSet, Key: c.Key, Value: c.Value})
	case OpRemove:
		b, err = json.Marshal(wireRemove{Op: OpRemove, Key: c.Key})
	default:
		return "", errors.NewParserError(fmt.Errorf("unknown command op %q", c.Op))
	}
	if err != nil {
		return "", errors.NewParserError(err)
	}
	return string(b), nil
}

// Decode parses a single line of text into a Command. Unknown
// discriminators or malformed payloads yield a ParserError.
func Decode(line string) (Command, error) {
	var probe wireProbe
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return Command{}, errors.NewParserError(err)
	}

	switch probe.Op {
	case OpSet:
		var w wireSet
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			return Command{}, errors.NewParserError(err)
		}
		return Command{Op: OpSet, Key: w.Key, Value: w.Value}, nil
	case OpRemove:
		var w wireRemove
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			return Command{}, errors.NewParserError(err)
		}
		return Command{Op: OpRemove, Key: w.Key}, nil
	default:
		return Command{}, errors.NewParserError(fmt.Errorf("unknown command op %q", probe.Op))
	}
}
