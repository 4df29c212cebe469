package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/models"
)

// DefaultPasswordMinLength is the minimal operator password length.
const DefaultPasswordMinLength = 8

// Validator validates the request payloads of the API.
type Validator struct {
	validate          *validator.Validate
	now               func() time.Time
	passwordMinLength int
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock sets the source of the current time used by date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithPasswordMinLength sets the minimal accepted password length.
func WithPasswordMinLength(n int) Option {
	return func(v *Validator) { v.passwordMinLength = n }
}

// New returns a Validator with the given options applied.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:          validator.New(),
		now:               time.Now,
		passwordMinLength: DefaultPasswordMinLength,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Person validates an add-person or update-person payload including every attribute.
func (v *Validator) Person(in models.PersonInput) error {
	return Walk(v.validate, personNode{in: in, today: models.DateOf(v.now())})
}

// Register validates an operator registration payload.
func (v *Validator) Register(in models.RegisterInput) error {
	return Walk(v.validate, registerNode{in: in, minLength: v.passwordMinLength})
}

// Login validates a login payload.
func (v *Validator) Login(in models.LoginInput) error {
	return Walk(v.validate, loginNode{in: in})
}

// Page validates listing parameters.
func (v *Validator) Page(in models.PageInput) error {
	return Walk(v.validate, pageNode{in: in})
}

type personNode struct {
	in    models.PersonInput
	today models.Date
}

func (n personNode) Validate(r *Report) {
	r.Check("name", n.in.Name,
		Rule{"required", "Name is required!"},
		Rule{"max=50", "Name must not exceed length of 50!"},
		Rule{"alphaunicode", "Name can contain only letters!"},
	)
	r.Check("surname", n.in.Surname,
		Rule{"required", "Surname is required!"},
		Rule{"max=150", "Surname must not exceed length of 150!"},
		Rule{"alphaunicode", "Surname can contain only letters!"},
	)

	switch {
	case n.in.BirthDate == nil:
		r.Add("birthDate", "Birth date is required!")
	case !n.in.BirthDate.Before(n.today.Time):
		r.Add("birthDate", "Birth date can not be set in future!")
	}

	r.Check("sex", int(n.in.Sex), Rule{"oneof=0 1 2", "Sex must be one of 0 (male), 1 (female) or 2 (other)!"})

	seen := make(map[string]struct{}, len(n.in.Attributes))
	for _, a := range n.in.Attributes {
		if _, dup := seen[a.Key]; dup {
			r.Add("attributes", "Key value of attribute can not be duplicated!")
			break
		}
		seen[a.Key] = struct{}{}
	}
}

func (n personNode) Nested() []Nested {
	nodes := make([]Node, 0, len(n.in.Attributes))
	for _, a := range n.in.Attributes {
		nodes = append(nodes, attributeNode{in: a})
	}
	return []Nested{Many("attributes", nodes...)}
}

type attributeNode struct {
	in models.AttributeInput
}

func (n attributeNode) Validate(r *Report) {
	r.Check("key", n.in.Key, Rule{"notblank", "Key is required!"})
	hasValue := r.Check("value", n.in.Value, Rule{"notblank", "Value is required!"})
	hasType := r.Check("valueType", n.in.ValueType, Rule{"required", "Value type is required!"})
	if !hasValue || !hasType {
		return
	}

	err := attribute.Validate(n.in.Value, *n.in.ValueType)
	switch {
	case err == nil:
	case errors.Is(err, attribute.ErrUnknownType):
		r.Add("valueType", "Value type is not supported!")
	default:
		r.Add("value", fmt.Sprintf("Value must be a valid %s!", *n.in.ValueType))
	}
}

func (n attributeNode) Nested() []Nested { return nil }

type registerNode struct {
	in        models.RegisterInput
	minLength int
}

func (n registerNode) Validate(r *Report) {
	r.Check("username", n.in.Username, Rule{"required", "Username is required!"})
	r.Check("nickname", n.in.Nickname, Rule{"required", "Nickname is required!"})
	r.Check("password", n.in.Password,
		Rule{"required", "Password is required!"},
		Rule{fmt.Sprintf("min=%d", n.minLength), fmt.Sprintf("Password must contain at least %d characters!", n.minLength)},
	)
	r.Compare("repeatPassword", n.in.RepeatPassword, n.in.Password,
		Rule{"eqfield", "Confirm password differs from password!"})
}

func (n registerNode) Nested() []Nested { return nil }

type loginNode struct {
	in models.LoginInput
}

func (n loginNode) Validate(r *Report) {
	r.Check("username", n.in.Username, Rule{"required", "Username is required!"})
	r.Check("password", n.in.Password, Rule{"required", "Password is required!"})
}

func (n loginNode) Nested() []Nested { return nil }

type pageNode struct {
	in models.PageInput
}

func (n pageNode) Validate(r *Report) {
	r.Check("page", n.in.Page, Rule{"min=1", "Page must be at least 1!"})
	r.Check("pageSize", n.in.PageSize,
		Rule{"min=1", "Page size must be at least 1!"},
		Rule{"max=100", "Page size must not exceed 100!"},
	)
}

func (n pageNode) Nested() []Nested { return nil }
