package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Collection and field names shared by the stores.
const (
	UsersCollection   = "users"
	ReportsCollection = "reports"
	DraftsCollection  = "drafts"
)

// Per-tool JSON fields of a report, keyed by the snapshot key they hold.
var toolFields = []struct {
	field string
	key   string
}{
	{"pipe_level_check", "pipeLevelCheck"},
	{"laser", "laser"},
	{"regrade", "regrade"},
	{"grade_check", "gradeCheck"},
	{"chainage_il", "chainageIL"},
	{"general_notes", "generalNotes"},
}

const maxToolJSONSize = 2 << 20

// Setup programmatically creates/ensures the users, reports and drafts
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	users := ensureUsers(app)

	ensureCollection(app, ReportsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "owner",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "owner_label", Required: false})
		c.Fields.Add(&core.TextField{Name: "project_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "stage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "schema_version", Required: false, OnlyInt: true})
		for _, tf := range toolFields {
			c.Fields.Add(&core.JSONField{Name: tf.field, MaxSize: maxToolJSONSize})
		}
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_reports_owner_updated", false, "owner, updated", "")
	})

	ensureCollection(app, DraftsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "owner",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.JSONField{Name: "data", MaxSize: maxToolJSONSize * 6})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_drafts_owner", true, "owner", "")
	})
}

// ensureUsers returns the users auth collection, creating it when the
// PocketBase system migrations did not.
func ensureUsers(app *pocketbase.PocketBase) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(UsersCollection)
	if err == nil && existing != nil {
		return existing
	}

	users := core.NewAuthCollection(UsersCollection)
	users.Fields.Add(&core.TextField{Name: "name", Max: 255})
	if err := app.Save(users); err != nil {
		log.Fatalf("Failed to create collection %q: %v", UsersCollection, err)
	}
	fmt.Printf("Created collection %q (id=%s)\n", UsersCollection, users.Id)
	return users
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
