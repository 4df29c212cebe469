package models

import (
	"time"

	"github.com/google/uuid"
)

// Sex is the enumerated sex of a person. Its numeric value is part of the JSON contract.
type Sex int

const (
	// SexMale is encoded as 0.
	SexMale Sex = iota
	// SexFemale is encoded as 1.
	SexFemale
	// SexOther is encoded as 2.
	SexOther
)

// String returns the raw label used in reports.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	case SexOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// ValueType tells how the textual value of an attribute is interpreted.
type ValueType int

const (
	ValueTypeInt ValueType = iota
	ValueTypeDouble
	ValueTypeBool
	ValueTypeString
	ValueTypeDate
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeInt:
		return "int"
	case ValueTypeDouble:
		return "double"
	case ValueTypeBool:
		return "bool"
	case ValueTypeString:
		return "string"
	case ValueTypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// Attribute is a typed key/value pair owned by a person.
// Keys are unique within the owning person's attribute set.
type Attribute struct {
	// ID identifies the attribute row. It is not exposed over the API.
	ID uuid.UUID `json:"-"`
	// PersonID references the owning person.
	PersonID uuid.UUID `json:"-"`
	// Key names the attribute.
	Key string `json:"key"`
	// Value is the canonical textual encoding of the value.
	Value string `json:"value"`
	// ValueType selects the grammar Value must satisfy.
	ValueType ValueType `json:"valueType"`
}

// Person is a managed people record.
type Person struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	BirthDate Date      `json:"birthDate"`
	Sex       Sex       `json:"sex"`
	// CreatedAt is assigned by the server and orders listings.
	CreatedAt  time.Time   `json:"-"`
	Attributes []Attribute `json:"attributes"`
}

// AttributeInput is one desired attribute as submitted by a client.
// ValueType is a pointer so that a missing type can be told apart from int (0).
type AttributeInput struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	ValueType *ValueType `json:"valueType"`
}

// Type returns the submitted value type, or -1 when it was omitted.
func (a AttributeInput) Type() ValueType {
	if a.ValueType == nil {
		return ValueType(-1)
	}
	return *a.ValueType
}

// PersonInput is the payload of add-person and update-person requests.
type PersonInput struct {
	Name       string           `json:"name"`
	Surname    string           `json:"surname"`
	BirthDate  *Date            `json:"birthDate"`
	Sex        Sex              `json:"sex"`
	Attributes []AttributeInput `json:"attributes"`
}

// Person builds the person record described by the input. Attributes are
// left empty; they are derived through the attribute merge.
func (in PersonInput) Person(id uuid.UUID) Person {
	p := Person{
		ID:      id,
		Name:    in.Name,
		Surname: in.Surname,
		Sex:     in.Sex,
	}
	if in.BirthDate != nil {
		p.BirthDate = *in.BirthDate
	}
	return p
}
