// Package validation checks request payloads before they reach business
// logic. Every payload shape is a Node that declares its own rules and the
// nested shapes below it; Walk visits the whole tree and reports every
// violation found, never only the first one.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single violation located by its field path.
type FieldError struct {
	Field   string `json:"propertyName"`
	Message string `json:"errorMessage"`
}

// Errors is the complete list of violations of one payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Node is a payload shape with its own rules.
type Node interface {
	// Validate records violations of the node's own fields.
	Validate(r *Report)
	// Nested lists the nested shapes to descend into, in field order.
	Nested() []Nested
}

// Nested is a field holding one nested node or a collection of them.
type Nested struct {
	Field      string
	Nodes      []Node
	Collection bool
}

// One declares a single nested node under field.
func One(field string, node Node) Nested {
	return Nested{Field: field, Nodes: []Node{node}}
}

// Many declares a collection of nested nodes under field.
func Many(field string, nodes ...Node) Nested {
	return Nested{Field: field, Nodes: nodes, Collection: true}
}

// Rule pairs a validator tag with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Report collects violations for one node, prefixing fields with the node's path.
type Report struct {
	path     string
	validate *validator.Validate
	errs     *Errors
}

func (r *Report) field(name string) string {
	if r.path == "" {
		return name
	}
	if name == "" {
		return r.path
	}
	return r.path + "." + name
}

// Add records a violation of field.
func (r *Report) Add(field, message string) {
	*r.errs = append(*r.errs, FieldError{Field: r.field(field), Message: message})
}

// Check applies rules to value in order and records the message of the
// first one that fails. It reports whether all rules passed.
func (r *Report) Check(field string, value any, rules ...Rule) bool {
	for _, rule := range rules {
		if err := r.validate.Var(value, rule.Tag); err != nil {
			r.Add(field, rule.Message)
			return false
		}
	}
	return true
}

// Compare applies a cross-field rule such as eqfield to value and other.
func (r *Report) Compare(field string, value, other any, rule Rule) bool {
	if err := r.validate.VarWithValue(value, other, rule.Tag); err != nil {
		r.Add(field, rule.Message)
		return false
	}
	return true
}

// Walk validates root and then every nested node below it, depth first in
// declared order. It returns Errors holding every violation, or nil.
func Walk(v *validator.Validate, root Node) error {
	var errs Errors
	walk(v, root, "", &errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func walk(v *validator.Validate, n Node, path string, errs *Errors) {
	if n == nil {
		return
	}
	n.Validate(&Report{path: path, validate: v, errs: errs})

	for _, nested := range n.Nested() {
		base := nested.Field
		if path != "" {
			base = path + "." + nested.Field
		}
		for i, child := range nested.Nodes {
			childPath := base
			if nested.Collection {
				childPath = fmt.Sprintf("%s[%d]", base, i)
			}
			walk(v, child, childPath, errs)
		}
	}
}
