package employee

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/store"
)

type EmployeeDTO struct {
	EmpID    string `json:"empId"`
	Email    string `json:"email"`
	Position string `json:"position"`
	DeptID   string `json:"deptId"`
	HireDate string `json:"hireDate"`
}

func (d EmployeeDTO) Normalize() EmployeeDTO {
	d.EmpID = strings.TrimSpace(d.EmpID)
	d.Email = strings.TrimSpace(d.Email)
	d.Position = strings.TrimSpace(d.Position)
	d.DeptID = strings.TrimSpace(d.DeptID)
	d.HireDate = strings.TrimSpace(d.HireDate)
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

func (s *Service) List(actor auth.Session) ([]document.Employee, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return append([]document.Employee{}, s.store.Document().Employees...), nil
}

// Upsert creates an employee when index is nil and edits the one at *index
// otherwise. The email must belong to an account. The department must exist
// on create, and on edit whenever it changes; an edit that keeps an already
// dangling deptId is allowed. Two employees may share an email.
func (s *Service) Upsert(actor auth.Session, index *int, dto EmployeeDTO) (document.Employee, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return document.Employee{}, err
	}
	dto = dto.Normalize()

	var saved document.Employee
	_, err := s.store.Mutate(func(doc *document.Document) error {
		var existing *document.Employee
		if index != nil {
			if *index < 0 || *index >= len(doc.Employees) {
				return errors.ErrRecordNotFound
			}
			existing = &doc.Employees[*index]
		}

		if _, ok := doc.FindAccount(dto.Email); !ok {
			return errors.ErrUnknownAccount
		}
		if dto.DeptID == "" {
			return errors.ErrMissingDepartment
		}
		deptChanged := existing == nil || existing.DeptID != dto.DeptID
		if deptChanged && !doc.HasDepartment(dto.DeptID) {
			return errors.ErrMissingDepartment
		}

		if existing == nil {
			empID := dto.EmpID
			if empID == "" {
				empID = s.newID()
			}
			saved = document.Employee{
				EmpID:    empID,
				Email:    dto.Email,
				Position: dto.Position,
				DeptID:   dto.DeptID,
				HireDate: dto.HireDate,
			}
			doc.Employees = append(doc.Employees, saved)
			return nil
		}

		if dto.EmpID != "" {
			existing.EmpID = dto.EmpID
		}
		existing.Email = dto.Email
		existing.Position = dto.Position
		existing.DeptID = dto.DeptID
		existing.HireDate = dto.HireDate
		saved = *existing
		return nil
	})
	if err != nil {
		s.logger.Warn("employee upsert rejected", "email", dto.Email, "deptId", dto.DeptID, "error", err)
		return document.Employee{}, err
	}

	s.logger.Info("employee saved", "empId", saved.EmpID, "email", saved.Email)
	return saved, nil
}

func (s *Service) Remove(actor auth.Session, index int) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	var removed document.Employee
	_, err := s.store.Mutate(func(doc *document.Document) error {
		if index < 0 || index >= len(doc.Employees) {
			return errors.ErrRecordNotFound
		}
		removed = doc.Employees[index]
		doc.Employees = append(doc.Employees[:index], doc.Employees[index+1:]...)
		return nil
	})
	if err != nil {
		s.logger.Warn("employee remove rejected", "index", index, "error", err)
		return err
	}

	s.logger.Info("employee removed", "empId", removed.EmpID, "email", removed.Email)
	return nil
}
