package model

// PartitionKeyDefinition declares the document path(s) used to distribute a
// collection's documents across partitions.
type PartitionKeyDefinition struct {
	Paths []string `json:"paths" bson:"paths"`
	Kind  string   `json:"kind,omitempty" bson:"kind,omitempty"`
}

// CollectionMeta is the collection metadata reported by the document client.
// It is treated as immutable once a tree node holds it.
type CollectionMeta struct {
	ID           string                  `json:"id" bson:"_id"`
	SelfLink     string                  `json:"_self" bson:"self_link"`
	PartitionKey *PartitionKeyDefinition `json:"partitionKey,omitempty" bson:"partition_key,omitempty"`
}

// FirstPath returns the first declared path. A nil definition has none.
func (p *PartitionKeyDefinition) FirstPath() (string, bool) {
	if p == nil || len(p.Paths) == 0 {
		return "", false
	}
	return p.Paths[0], true
}
