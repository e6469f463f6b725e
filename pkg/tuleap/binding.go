package tuleap

import (
	"context"
	"fmt"
)

// Binder declares how a strongly typed model maps onto a tracker's field
// names. Each binding pairs a field name with accessor closures over the
// model's own fields; registration happens once when the model is built, so
// the mapping is explicit and checkable instead of discovered by reflection.
//
// All link bindings of one model must target the same artifact-link field,
// since the service stores every link of an artifact in a single field.
type Binder struct {
	bindings  []binding
	linkField string
	err       error
}

type binding struct {
	field    string
	link     bool
	readOnly bool
	get      func() any
	set      func(Value)
	getLinks func() []int
	setLinks func([]int)
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{}
}

// Bind registers a read/write binding for a scalar field. get supplies the
// model's current value for writes; set stores a decoded value on reads.
func (b *Binder) Bind(fieldName string, get func() any, set func(Value)) *Binder {
	b.bindings = append(b.bindings, binding{field: fieldName, get: get, set: set})
	return b
}

// BindReadOnly registers a binding that is populated on reads but never
// written, for server-managed fields such as submission metadata.
func (b *Binder) BindReadOnly(fieldName string, set func(Value)) *Binder {
	b.bindings = append(b.bindings, binding{field: fieldName, readOnly: true, set: set})
	return b
}

// BindLinks registers a binding for linked artifact ids. Multiple link
// bindings may share one field name; a second field name is a registration
// error surfaced by Values and Populate.
func (b *Binder) BindLinks(fieldName string, get func() []int, set func([]int)) *Binder {
	if b.linkField == "" {
		b.linkField = fieldName
	} else if b.linkField != fieldName {
		b.err = fmt.Errorf("link bindings must share one field name: %q and %q", b.linkField, fieldName)
	}
	b.bindings = append(b.bindings, binding{field: fieldName, link: true, getLinks: get, setLinks: set})
	return b
}

// Populate copies an artifact's decoded values into the model through the
// registered setters. Fields the record has no entry for are left alone.
func (b *Binder) Populate(artifact *Artifact) error {
	if b.err != nil {
		return b.err
	}
	for _, bd := range b.bindings {
		v, ok := artifact.FieldValue(bd.field)
		if !ok {
			continue
		}
		if bd.link {
			if v.Kind != ValueLinks {
				continue
			}
			ids := make([]int, len(v.Links))
			for i, l := range v.Links {
				ids[i] = l.ID()
			}
			bd.setLinks(ids)
			continue
		}
		bd.set(v)
	}
	return nil
}

// Values collects the model's writable state into a field-name→value map
// suitable for CreateArtifact or UpdateArtifact. Link bindings merge into a
// single link list under their shared field name.
func (b *Binder) Values() (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	values := make(map[string]any, len(b.bindings))
	var links []ArtifactLink
	for _, bd := range b.bindings {
		switch {
		case bd.readOnly:
		case bd.link:
			for _, id := range bd.getLinks() {
				links = append(links, ArtifactLink{ArtifactID: id})
			}
		default:
			values[bd.field] = bd.get()
		}
	}
	if b.linkField != "" && links != nil {
		values[b.linkField] = links
	}
	return values, nil
}

// Create writes the model as a new artifact and returns the assigned id.
func (b *Binder) Create(ctx context.Context, client *Client, trackerID int) (int, error) {
	values, err := b.Values()
	if err != nil {
		return 0, err
	}
	artifact, err := client.CreateArtifact(ctx, trackerID, values)
	if err != nil {
		return 0, err
	}
	return artifact.ID, nil
}

// Update writes the model's state onto an existing artifact.
func (b *Binder) Update(ctx context.Context, client *Client, artifactID, trackerID int) error {
	values, err := b.Values()
	if err != nil {
		return err
	}
	return client.UpdateArtifact(ctx, artifactID, trackerID, values)
}

// Load reads an artifact and populates the model from it.
func (b *Binder) Load(ctx context.Context, client *Client, artifactID int) error {
	artifact, err := client.Artifact(ctx, artifactID)
	if err != nil {
		return err
	}
	return b.Populate(artifact)
}
