package http

import (
	"context"
	"strconv"
	"strings"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	"docdb-explorer/internal/explorer/tree"
	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/link"
	"docdb-explorer/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// HeaderConfirm answers the modal warning raised by a delete.
const HeaderConfirm = "X-Confirm"

// EventReader lists recorded tree events.
type EventReader interface {
	RecentEvents(ctx context.Context, count int64) ([]model.TreeEvent, error)
	EventsSince(ctx context.Context, lastID string, count int64) ([]model.TreeEvent, error)
}

// TreeHandler exposes collection nodes over HTTP. Prompt answers arrive with
// the request: X-Confirm for delete confirmations and the body id for the
// document id prompt.
type TreeHandler struct {
	Registry *NodeRegistry
	Events   EventReader
	Log      logger.Logger
}

func NewTreeHandler(registry *NodeRegistry, events EventReader, log logger.Logger) *TreeHandler {
	return &TreeHandler{
		Registry: registry,
		Events:   events,
		Log:      log,
	}
}

func (h *TreeHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api/v1")

	api.Get("/health", h.Health)
	if h.Events != nil {
		api.Get("/events", h.RecentEvents)
	}

	const coll = "/dbs/:databaseID/colls/:collectionID"
	api.Get(coll, ValidateLinkParams(), h.GetCollection)
	api.Delete(coll, ValidateLinkParams(), h.DeleteCollection)
	api.Get(coll+"/children", ValidateLinkParams(), h.LoadChildren)
	api.Post(coll+"/docs", ValidateLinkParams(), h.CreateDocument)
	api.Delete(coll+"/docs/:documentID", ValidateLinkParams(), h.DeleteDocument)
}

// ValidateLinkParams rejects ids that cannot be part of a resource link.
func ValidateLinkParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range []string{"databaseID", "collectionID"} {
			if !link.IsValidID(c.Params(name)) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":   "invalid_argument",
					"message": "invalid " + name,
				})
			}
		}
		return c.Next()
	}
}

func (h *TreeHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "HEALTHY",
		"collections": h.Registry.Len(),
	})
}

func (h *TreeHandler) GetCollection(c *fiber.Ctx) error {
	var desc NodeDescriptor
	err := h.Registry.WithNode(c.UserContext(), c.Params("databaseID"), c.Params("collectionID"), func(node *tree.CollectionNode) error {
		desc = describe(node)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(desc)
}

func (h *TreeHandler) LoadChildren(c *fiber.Ctx) error {
	clearCache := c.QueryBool("clearCache", false)

	var resp ChildrenResponse
	err := h.Registry.WithNode(c.UserContext(), c.Params("databaseID"), c.Params("collectionID"), func(node *tree.CollectionNode) error {
		children, err := node.LoadMoreChildren(c.UserContext(), clearCache)
		if err != nil {
			return err
		}
		resp = ChildrenResponse{
			Children:        describeAll(children),
			HasMoreChildren: node.HasMoreChildren(),
		}
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (h *TreeHandler) CreateDocument(c *fiber.Ctx) error {
	input, err := parseDocumentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request_body",
			"message": err.Error(),
		})
	}
	ctx := WithAnswers(c.UserContext(), Answers{Input: input})

	var desc NodeDescriptor
	err = h.Registry.WithNode(ctx, c.Params("databaseID"), c.Params("collectionID"), func(node *tree.CollectionNode) error {
		child, err := node.CreateChild(ctx, func(label string) {
			h.Log.WithContext(ctx).Debugf("creating document %q", label)
		})
		if err != nil {
			return err
		}
		desc = describe(child)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(desc)
}

func (h *TreeHandler) DeleteCollection(c *fiber.Ctx) error {
	databaseID, collectionID := c.Params("databaseID"), c.Params("collectionID")
	ctx := WithAnswers(c.UserContext(), Answers{Confirm: confirmAnswer(c)})

	err := h.Registry.WithNode(ctx, databaseID, collectionID, func(node *tree.CollectionNode) error {
		return node.DeleteTreeItem(ctx)
	})
	if err != nil {
		return writeError(c, err)
	}
	h.Registry.Remove(link.BuildCollectionLink(databaseID, collectionID))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TreeHandler) DeleteDocument(c *fiber.Ctx) error {
	documentID := c.Params("documentID")
	if !link.IsValidID(documentID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_argument",
			"message": "invalid documentID",
		})
	}
	ctx := WithAnswers(c.UserContext(), Answers{Confirm: confirmAnswer(c)})

	err := h.Registry.WithNode(ctx, c.Params("databaseID"), c.Params("collectionID"), func(node *tree.CollectionNode) error {
		child, ok := node.WrapChild(model.Document{model.FieldID: documentID}).(tree.DeletableTreeItem)
		if !ok {
			return errors.NewInternalError("document node is not deletable")
		}
		return child.DeleteTreeItem(ctx)
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TreeHandler) RecentEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	// since pages forward from a previously returned event id, oldest first
	var (
		events []model.TreeEvent
		err    error
	)
	if since := c.Query("since"); since != "" {
		if !validStreamID(since) {
			return writeError(c, errors.NewValidationError("invalid since event id").WithDetail("since", since))
		}
		events, err = h.Events.EventsSince(c.UserContext(), since, int64(limit))
	} else {
		events, err = h.Events.RecentEvents(c.UserContext(), int64(limit))
	}
	if err != nil {
		return writeError(c, errors.NewInfrastructureError("failed to read tree events").WithCause(err))
	}
	return c.JSON(fiber.Map{"events": events})
}

// validStreamID accepts "<ms>" and "<ms>-<seq>" event ids.
func validStreamID(id string) bool {
	ms, seq, hasSeq := strings.Cut(id, "-")
	if _, err := strconv.ParseUint(ms, 10, 64); err != nil {
		return false
	}
	if hasSeq {
		if _, err := strconv.ParseUint(seq, 10, 64); err != nil {
			return false
		}
	}
	return true
}

// parseDocumentID reads the id prompt answer from the body. No body or no id
// key means the prompt was dismissed.
func parseDocumentID(c *fiber.Ctx) (*string, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return nil, errors.NewValidationError("failed to parse request body").WithCause(err)
	}
	raw, ok := body[model.FieldID]
	if !ok {
		return nil, nil
	}
	id, ok := raw.(string)
	if !ok {
		return nil, errors.NewValidationError("id must be a string")
	}
	return &id, nil
}

// confirmAnswer normalises X-Confirm so "yes" answers the Yes choice.
func confirmAnswer(c *fiber.Ctx) string {
	answer := strings.TrimSpace(c.Get(HeaderConfirm))
	if strings.EqualFold(answer, prompt.DialogYes) {
		return prompt.DialogYes
	}
	if strings.EqualFold(answer, prompt.DialogCancel) {
		return prompt.DialogCancel
	}
	return answer
}
