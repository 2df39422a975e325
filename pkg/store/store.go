// Package store holds the persistence collaborators the rendering pipeline
// consumes: label templates with their versions and saved element arrays,
// template-to-entity associations with carrier flags, and business-entity
// lookups. The pipeline only ever reads through these narrow interfaces;
// the editing surfaces that write them live elsewhere.
//
// Backends:
//   - memory: in-process storage for development and tests
//   - mongo: MongoDB-backed storage for deployments
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Template is a named label template. Its artwork lives on versions.
type Template struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// Version is one immutable revision of a template's artwork.
//
// WidthIn/HeightIn, when positive, override the physical size declared in
// the markup itself. Elements holds the saved placement array as raw JSON;
// an empty value means no elements were ever saved and a default is
// synthesized at render time.
type Version struct {
	ID         string          `json:"id" bson:"_id"`
	TemplateID string          `json:"template_id" bson:"template_id"`
	Label      string          `json:"label" bson:"label"`
	Markup     string          `json:"markup" bson:"markup"`
	WidthIn    float64         `json:"width_in,omitempty" bson:"width_in,omitempty"`
	HeightIn   float64         `json:"height_in,omitempty" bson:"height_in,omitempty"`
	Elements   json.RawMessage `json:"elements,omitempty" bson:"elements,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// Association links a template to an entity type, carrying the carrier
// flags. Among a product's associated templates exactly one carries the QR
// and exactly one the barcode; when no flag is set anywhere, the first
// association is the carrier for both.
type Association struct {
	TemplateID     string `json:"template_id" bson:"template_id"`
	EntityType     string `json:"entity_type" bson:"entity_type"`
	QRCarrier      bool   `json:"qr_carrier" bson:"qr_carrier"`
	BarcodeCarrier bool   `json:"barcode_carrier" bson:"barcode_carrier"`
}

// Entity is the slice of a business record the renderer needs: the
// human-readable code shown on labels and the value encoded into barcodes.
// BarcodeValue is empty when the entity has none.
type Entity struct {
	DisplayCode  string `json:"display_code" bson:"display_code"`
	BarcodeValue string `json:"barcode_value,omitempty" bson:"barcode_value,omitempty"`
}

// TemplateStore reads and writes templates, versions and associations.
type TemplateStore interface {
	// Template retrieves a template by id. NOT_FOUND when absent.
	Template(ctx context.Context, id string) (Template, error)

	// Version retrieves one version of a template. NOT_FOUND when absent.
	Version(ctx context.Context, templateID, versionID string) (Version, error)

	// CreateVersion stores a new version. CONFLICT when the version id
	// already exists for the template.
	CreateVersion(ctx context.Context, v Version) error

	// ReplaceElements atomically swaps a version's saved element array.
	// The whole array replaces the old one; elements are never patched
	// individually. The array is decoded, rotation-snapped, and validated
	// against the label's physical bounds before the swap; a rejected
	// array leaves the stored one untouched.
	ReplaceElements(ctx context.Context, templateID, versionID string, elements json.RawMessage) error

	// Associations lists the templates associated with an entity type,
	// in stored order.
	Associations(ctx context.Context, entityType string) ([]Association, error)
}

// EntityStore resolves business entities by type and id.
type EntityStore interface {
	// Entity retrieves an entity by (entityType, entityID). NOT_FOUND
	// when absent.
	Entity(ctx context.Context, entityType, entityID string) (Entity, error)
}
