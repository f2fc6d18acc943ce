package department

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/store"
)

type DepartmentDTO struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

func (d DepartmentDTO) Normalize() DepartmentDTO {
	d.Name = strings.TrimSpace(d.Name)
	d.Desc = strings.TrimSpace(d.Desc)
	return d
}

type Service struct {
	store  *store.Store
	logger *slog.Logger
	newID  func() string
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (s *Service) List(actor auth.Session) ([]document.Department, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return append([]document.Department{}, s.store.Document().Departments...), nil
}

// Upsert creates a department when index is nil and edits the one at
// *index otherwise. Names are trimmed but an empty name is accepted.
func (s *Service) Upsert(actor auth.Session, index *int, dto DepartmentDTO) (document.Department, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return document.Department{}, err
	}
	dto = dto.Normalize()

	var saved document.Department
	_, err := s.store.Mutate(func(doc *document.Document) error {
		if index == nil {
			saved = document.Department{ID: s.newID(), Name: dto.Name, Desc: dto.Desc}
			doc.Departments = append(doc.Departments, saved)
			return nil
		}
		if *index < 0 || *index >= len(doc.Departments) {
			return errors.ErrRecordNotFound
		}
		dep := &doc.Departments[*index]
		dep.Name = dto.Name
		dep.Desc = dto.Desc
		saved = *dep
		return nil
	})
	if err != nil {
		s.logger.Warn("department upsert rejected", "error", err)
		return document.Department{}, err
	}

	s.logger.Info("department saved", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

// Remove deletes the department at index. Employees that reference it keep
// their deptId.
func (s *Service) Remove(actor auth.Session, index int) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	var removed document.Department
	_, err := s.store.Mutate(func(doc *document.Document) error {
		if index < 0 || index >= len(doc.Departments) {
			return errors.ErrRecordNotFound
		}
		removed = doc.Departments[index]
		doc.Departments = append(doc.Departments[:index], doc.Departments[index+1:]...)
		return nil
	})
	if err != nil {
		s.logger.Warn("department remove rejected", "index", index, "error", err)
		return err
	}

	dangling := 0
	for _, e := range s.store.Document().Employees {
		if e.DeptID == removed.ID {
			dangling++
		}
	}
	if dangling > 0 {
		s.logger.Warn("department removed with employees still assigned",
			"id", removed.ID,
			"employees", dangling)
	}

	s.logger.Info("department removed", "id", removed.ID, "name", removed.Name)
	return nil
}
