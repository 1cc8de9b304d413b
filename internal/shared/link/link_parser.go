package link

import (
	"fmt"
	"regexp"
	"strings"

	"docdb-explorer/internal/shared/errors"
)

// LinkInfo represents a parsed DocumentDB resource link
type LinkInfo struct {
	DatabaseID   string
	CollectionID string
	DocumentID   string
	IsCollection bool
	IsDocument   bool
}

var (
	// dbs/{DATABASE_ID}/colls/{COLLECTION_ID}[/docs/{DOCUMENT_ID}]
	resourceLinkRegex = regexp.MustCompile(`^dbs/([^/]+)/colls/([^/]+)(?:/docs/([^/]+))?$`)

	// Characters the service rejects inside resource ids
	invalidIDChars = `/\?#`
)

const maxIDLength = 255

// ParseLink parses a collection or document self link
func ParseLink(link string) (*LinkInfo, error) {
	if link == "" {
		return nil, errors.NewValidationError("link cannot be empty").WithCause(errors.ErrInvalidLink)
	}

	link = strings.Trim(link, "/")

	matches := resourceLinkRegex.FindStringSubmatch(link)
	if matches == nil {
		return nil, errors.NewValidationError("invalid resource link format").
			WithDetail("expected_format", "dbs/{DATABASE_ID}/colls/{COLLECTION_ID}[/docs/{DOCUMENT_ID}]").
			WithDetail("provided_link", link).
			WithCause(errors.ErrInvalidLink)
	}

	info := &LinkInfo{
		DatabaseID:   matches[1],
		CollectionID: matches[2],
		DocumentID:   matches[3],
	}
	info.IsDocument = info.DocumentID != ""
	info.IsCollection = !info.IsDocument

	for _, id := range []string{info.DatabaseID, info.CollectionID, info.DocumentID} {
		if id != "" && !IsValidID(id) {
			return nil, errors.NewValidationError("invalid id in link").
				WithDetail("id", id).
				WithCause(errors.ErrInvalidLink)
		}
	}

	return info, nil
}

// ParseCollectionLink parses a link that must point at a collection
func ParseCollectionLink(link string) (*LinkInfo, error) {
	info, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	if !info.IsCollection {
		return nil, errors.NewValidationError("link is a document, not a collection").
			WithDetail("provided_link", link).
			WithCause(errors.ErrInvalidLink)
	}
	return info, nil
}

// ParseDocumentLink parses a link that must point at a document
func ParseDocumentLink(link string) (*LinkInfo, error) {
	info, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	if !info.IsDocument {
		return nil, errors.NewValidationError("link is a collection, not a document").
			WithDetail("provided_link", link).
			WithCause(errors.ErrInvalidLink)
	}
	return info, nil
}

// BuildCollectionLink constructs a collection self link
func BuildCollectionLink(databaseID, collectionID string) string {
	return fmt.Sprintf("dbs/%s/colls/%s", databaseID, collectionID)
}

// BuildDocumentLink constructs a document self link under a collection link
func BuildDocumentLink(collectionLink, documentID string) string {
	return strings.Trim(collectionLink, "/") + "/docs/" + documentID
}

// IsValidID checks if an id can be used as a link segment
func IsValidID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	if strings.TrimSpace(id) != id {
		return false
	}
	return !strings.ContainsAny(id, invalidIDChars)
}
