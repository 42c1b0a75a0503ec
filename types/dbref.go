// Package types holds the wire-level value types shared across docmap:
// reference handles, explicit target types and the error taxonomy of the
// mapping layer.
package types

import "fmt"

// DBRef is the wire representation of an association: a pointer to a
// document in another collection. It marshals to the conventional
// {$ref, $id, $db} document understood by MongoDB drivers and tools.
type DBRef struct {
	Collection string `bson:"$ref"`
	ID         any    `bson:"$id"`
	Database   string `bson:"$db,omitempty"`
}

// NewDBRef creates a reference handle pointing at the document with the
// given id in the given collection.
func NewDBRef(collection string, id any) DBRef {
	return DBRef{Collection: collection, ID: id}
}

func (r DBRef) String() string {
	if r.Database != "" {
		return fmt.Sprintf("DBRef(%s.%s, %v)", r.Database, r.Collection, r.ID)
	}
	return fmt.Sprintf("DBRef(%s, %v)", r.Collection, r.ID)
}
