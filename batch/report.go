package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/arith"
)

// Record is the serialized form of an Outcome.
type Record struct {
	Line       int      `json:"line" yaml:"line"`
	Expression string   `json:"expression" yaml:"expression"`
	Tokens     []string `json:"tokens" yaml:"tokens"`
	Tree       string   `json:"tree,omitempty" yaml:"tree,omitempty"`
	Result     string   `json:"result,omitempty" yaml:"result,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Record converts o to its serialized form, formatting the result with verb.
func (o *Outcome) Record(verb string) Record {
	r := Record{
		Line:       o.Line,
		Expression: o.Expression,
		Tokens:     arith.Texts(o.Tokens),
	}
	if r.Tokens == nil {
		r.Tokens = []string{}
	}
	if o.Tree != nil {
		r.Tree = o.Tree.String()
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	} else {
		r.Result = fmt.Sprintf(verb, o.Result)
	}
	return r
}

// Write writes outcomes in the named format.
func Write(w io.Writer, format string, outs []Outcome, verb string) error {
	switch format {
	case "text", "":
		return WriteText(w, outs, verb)
	case "json":
		return WriteJSON(w, outs, verb)
	case "yaml":
		return WriteYAML(w, outs, verb)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteText writes one block per outcome, separated by blank lines:
//
//	Expression: 2+3*4
//	Tokens: [2 + 3 * 4]
//	Parse Tree: ([2] + [(3) * (4)])
//	Result: 14
//
// The parse tree line is absent if parsing failed, and an Error line
// replaces the result line on any failure.
func WriteText(w io.Writer, outs []Outcome, verb string) error {
	b := bufio.NewWriter(w)
	for i := range outs {
		r := outs[i].Record(verb)
		fmt.Fprintf(b, "Expression: %s\n", r.Expression)
		fmt.Fprintf(b, "Tokens: %v\n", r.Tokens)
		if r.Tree != "" {
			fmt.Fprintf(b, "Parse Tree: %s\n", r.Tree)
		}
		if r.Error != "" {
			fmt.Fprintf(b, "Error: %s\n", r.Error)
		} else {
			fmt.Fprintf(b, "Result: %s\n", r.Result)
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

func records(outs []Outcome, verb string) []Record {
	rs := make([]Record, len(outs))
	for i := range outs {
		rs[i] = outs[i].Record(verb)
	}
	return rs
}

// WriteJSON writes outcomes as an indented JSON array.
func WriteJSON(w io.Writer, outs []Outcome, verb string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records(outs, verb))
}

// WriteYAML writes outcomes as a YAML sequence.
func WriteYAML(w io.Writer, outs []Outcome, verb string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(outs, verb)); err != nil {
		return err
	}
	return enc.Close()
}
