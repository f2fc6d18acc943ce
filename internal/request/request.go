package request

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/store"
)

type ItemDTO struct {
	Name string            `json:"name"`
	Qty  document.Quantity `json:"qty"`
}

type RequestDTO struct {
	Type  string    `json:"type"`
	Items []ItemDTO `json:"items"`
}

// Normalize trims the type and every item, dropping items whose name or
// quantity is blank. Quantities are otherwise kept as entered.
func (d RequestDTO) Normalize() RequestDTO {
	d.Type = strings.TrimSpace(d.Type)
	items := make([]ItemDTO, 0, len(d.Items))
	for _, it := range d.Items {
		it.Name = strings.TrimSpace(it.Name)
		it.Qty = document.Quantity(strings.TrimSpace(string(it.Qty)))
		if it.Name == "" || it.Qty == "" {
			continue
		}
		items = append(items, it)
	}
	d.Items = items
	return d
}

func (d RequestDTO) documentItems() []document.Item {
	items := make([]document.Item, len(d.Items))
	for i, it := range d.Items {
		items[i] = document.Item{Name: it.Name, Qty: it.Qty}
	}
	return items
}

type Service struct {
	store  *store.Store
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// List returns the caller's own requests in document order.
func (s *Service) List(actor auth.Session) ([]document.Request, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	doc := s.store.Document()
	owned := []document.Request{}
	for _, pos := range ownedPositions(doc, actor.Email()) {
		owned = append(owned, doc.Requests[pos])
	}
	return owned, nil
}

func (s *Service) Create(actor auth.Session, dto RequestDTO) (document.Request, error) {
	return s.Upsert(actor, nil, dto)
}

// Upsert creates a Pending request owned by the caller when index is nil.
// Otherwise index addresses the caller's own list, and only a Pending
// request can be edited.
func (s *Service) Upsert(actor auth.Session, index *int, dto RequestDTO) (document.Request, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return document.Request{}, err
	}
	dto = dto.Normalize()
	owner := actor.Email()

	var saved document.Request
	_, err := s.store.Mutate(func(doc *document.Document) error {
		var existing *document.Request
		if index != nil {
			pos, err := resolve(doc, owner, *index)
			if err != nil {
				return err
			}
			existing = &doc.Requests[pos]
			if existing.Status != document.StatusPending {
				return errors.ErrCannotModifyRequest
			}
		}

		if len(dto.Items) == 0 {
			return errors.ErrNoItems
		}

		if existing == nil {
			saved = document.Request{
				ID:            s.newID(),
				Type:          dto.Type,
				Items:         dto.documentItems(),
				Status:        document.StatusPending,
				Date:          s.now().Format(document.DateLayout),
				EmployeeEmail: owner,
			}
			doc.Requests = append(doc.Requests, saved)
			return nil
		}

		existing.Type = dto.Type
		existing.Items = dto.documentItems()
		saved = *existing
		return nil
	})
	if err != nil {
		s.logger.Warn("request rejected", "owner", owner, "error", err)
		return document.Request{}, err
	}

	s.logger.Info("request saved", "id", saved.ID, "owner", owner, "items", len(saved.Items))
	return saved, nil
}

// Remove deletes one of the caller's own requests.
func (s *Service) Remove(actor auth.Session, index int) error {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}
	owner := actor.Email()

	var removed document.Request
	_, err := s.store.Mutate(func(doc *document.Document) error {
		pos, err := resolve(doc, owner, index)
		if err != nil {
			return err
		}
		removed = doc.Requests[pos]
		doc.Requests = append(doc.Requests[:pos], doc.Requests[pos+1:]...)
		return nil
	})
	if err != nil {
		s.logger.Warn("request remove rejected", "owner", owner, "index", index, "error", err)
		return err
	}

	s.logger.Info("request removed", "id", removed.ID, "owner", owner)
	return nil
}

func ownedPositions(doc *document.Document, owner string) []int {
	var positions []int
	for i, r := range doc.Requests {
		if r.EmployeeEmail == owner {
			positions = append(positions, i)
		}
	}
	return positions
}

// resolve maps an index into the owner's list to a position in the document.
func resolve(doc *document.Document, owner string, index int) (int, error) {
	positions := ownedPositions(doc, owner)
	if index < 0 || index >= len(positions) {
		return 0, errors.ErrRecordNotFound
	}
	return positions[index], nil
}
