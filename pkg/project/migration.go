package project

import "fmt"

// ErrVersionTooNew is returned when a document's header claims a schema
// version newer than this build understands.
var ErrVersionTooNew = fmt.Errorf("project: version newer than supported")

// Migrator upgrades a Document from one schema version to the next.
type Migrator interface {
	Migrate(doc Document) (Document, error)
	SourceVersion() Version
	TargetVersion() Version
}

// MigrationChain runs the chain of single-step migrators needed to bring
// a document up to a target version, one step at a time, grounded the
// same way the reference framework's own state.MigrationChain walks its
// migrators: find the one whose SourceVersion matches where the document
// currently is, apply it, repeat.
type MigrationChain struct {
	migrators []Migrator
}

// NewMigrationChain builds the chain with the project's v1.0→v1.1→v1.2
// steps pre-registered.
func NewMigrationChain() *MigrationChain {
	c := &MigrationChain{}
	c.Add(migrateV1_0ToV1_1{})
	c.Add(migrateV1_1ToV1_2{})
	return c
}

// Add appends a migrator to the chain.
func (c *MigrationChain) Add(m Migrator) { c.migrators = append(c.migrators, m) }

// Migrate walks doc forward to target, applying exactly the migrators
// needed and none more.
func (c *MigrationChain) Migrate(doc Document, target Version) (Document, error) {
	current := doc
	for current.Header.Version < target {
		var next Migrator
		for _, m := range c.migrators {
			if m.SourceVersion() == current.Header.Version {
				next = m
				break
			}
		}
		if next == nil {
			return Document{}, fmt.Errorf("project: no migrator registered from version %s", current.Header.Version)
		}
		migrated, err := next.Migrate(current)
		if err != nil {
			return Document{}, fmt.Errorf("project: migrate %s to %s: %w", next.SourceVersion(), next.TargetVersion(), err)
		}
		migrated.Header.Version = next.TargetVersion()
		current = migrated
	}
	return current, nil
}

// migrateV1_0ToV1_1 adds metronome defaults: enabled, half volume.
type migrateV1_0ToV1_1 struct{}

func (migrateV1_0ToV1_1) SourceVersion() Version { return Version1_0 }
func (migrateV1_0ToV1_1) TargetVersion() Version { return Version1_1 }

func (migrateV1_0ToV1_1) Migrate(doc Document) (Document, error) {
	doc.Metronome = MetronomeDoc{Enabled: true, Volume: 0.5}
	return doc, nil
}

// migrateV1_1ToV1_2 adds loop defaults: disabled, bars 1 through 8.
type migrateV1_1ToV1_2 struct{}

func (migrateV1_1ToV1_2) SourceVersion() Version { return Version1_1 }
func (migrateV1_1ToV1_2) TargetVersion() Version { return Version1_2 }

func (migrateV1_1ToV1_2) Migrate(doc Document) (Document, error) {
	doc.Loop = LoopDoc{Enabled: false, StartBar: 1, EndBar: 8}
	return doc, nil
}
