package http

import (
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/tree"
)

// NodeDescriptor is the JSON shape of a tree item.
type NodeDescriptor struct {
	ID                string                        `json:"id"`
	Label             string                        `json:"label"`
	ContextValue      string                        `json:"contextValue"`
	IconPath          tree.IconPath                 `json:"iconPath"`
	Link              string                        `json:"link,omitempty"`
	HasMoreChildren   *bool                         `json:"hasMoreChildren,omitempty"`
	PartitionKey      *model.PartitionKeyDefinition `json:"partitionKey,omitempty"`
	Document          model.Document                `json:"document,omitempty"`
	PartitionKeyValue interface{}                   `json:"partitionKeyValue,omitempty"`
}

// ChildrenResponse is one page of children.
type ChildrenResponse struct {
	Children        []NodeDescriptor `json:"children"`
	HasMoreChildren bool             `json:"hasMoreChildren"`
}

func describe(item tree.TreeItem) NodeDescriptor {
	d := NodeDescriptor{
		ID:           item.ID(),
		Label:        item.Label(),
		ContextValue: item.ContextValue(),
		IconPath:     item.IconPath(),
	}
	switch node := item.(type) {
	case *tree.CollectionNode:
		more := node.HasMoreChildren()
		d.Link = node.Link()
		d.HasMoreChildren = &more
		d.PartitionKey = node.PartitionKey()
	case *tree.DocumentNode:
		d.Link = node.Link()
		d.Document = node.Document()
		if value, ok := node.PartitionKeyValue(); ok {
			d.PartitionKeyValue = value
		}
	}
	return d
}

func describeAll(items []tree.TreeItem) []NodeDescriptor {
	out := make([]NodeDescriptor, 0, len(items))
	for _, item := range items {
		out = append(out, describe(item))
	}
	return out
}
