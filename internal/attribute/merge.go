package attribute

import (
	"github.com/google/uuid"

	"github.com/atinyakov/UserNotepad/internal/models"
)

// Plan is the set of explicit writes that turns a stored attribute set into
// a desired one.
type Plan struct {
	// Insert holds new attributes, already carrying fresh IDs and the owner's ID.
	Insert []models.Attribute
	// Update holds existing attributes (IDs preserved) with new value and type.
	Update []models.Attribute
	// Delete holds existing attributes whose key is no longer desired.
	Delete []models.Attribute
	// Result is the attribute set after the plan is applied, in desired order.
	Result []models.Attribute
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.Insert) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// DeleteIDs returns the IDs of the attributes marked for deletion.
func (p Plan) DeleteIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Delete))
	for _, a := range p.Delete {
		ids = append(ids, a.ID)
	}
	return ids
}

// Merge computes the writes needed to make existing match desired, keyed by
// attribute key. An existing attribute is updated only when its value or
// type differ, so merging a set against itself yields an empty plan.
//
// desired must have pairwise distinct keys; request validation rejects
// duplicates before Merge is reached. If duplicates slip through anyway the
// last entry for a key wins.
func Merge(personID uuid.UUID, existing []models.Attribute, desired []models.AttributeInput) Plan {
	byKey := make(map[string]models.Attribute, len(existing))
	for _, a := range existing {
		byKey[a.Key] = a
	}

	last := make(map[string]int, len(desired))
	for i, in := range desired {
		last[in.Key] = i
	}

	var plan Plan
	for _, a := range existing {
		if _, ok := last[a.Key]; !ok {
			plan.Delete = append(plan.Delete, a)
		}
	}

	for i, in := range desired {
		if last[in.Key] != i {
			continue
		}
		current, ok := byKey[in.Key]
		if !ok {
			a := models.Attribute{
				ID:        uuid.New(),
				PersonID:  personID,
				Key:       in.Key,
				Value:     in.Value,
				ValueType: in.Type(),
			}
			plan.Insert = append(plan.Insert, a)
			plan.Result = append(plan.Result, a)
			continue
		}
		if current.Value != in.Value || current.ValueType != in.Type() {
			current.Value = in.Value
			current.ValueType = in.Type()
			plan.Update = append(plan.Update, current)
		}
		plan.Result = append(plan.Result, current)
	}

	return plan
}
