package document

import (
	"encoding/json"
	"strconv"
)

// SchemaVersion is the shape written by this build. Documents without a
// version field predate versioning and are treated as version 1.
const SchemaVersion = 2

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// DateLayout is used for hire dates and request dates.
const DateLayout = "2006-01-02"

// Document is the unit of persistence.
type Document struct {
	Version     int          `json:"version"`
	Accounts    []Account    `json:"accounts"`
	Departments []Department `json:"departments"`
	Employees   []Employee   `json:"employees"`
	Requests    []Request    `json:"requests"`
}

// Account is keyed by Email. Passwords are stored as entered.
type Account struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type Employee struct {
	EmpID    string `json:"empId"`
	Email    string `json:"email"`
	Position string `json:"position"`
	DeptID   string `json:"deptId"`
	HireDate string `json:"hireDate"`
}

type Request struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Items         []Item `json:"items"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	EmployeeEmail string `json:"employeeEmail"`
}

type Item struct {
	Name string   `json:"name"`
	Qty  Quantity `json:"qty"`
}

// Quantity keeps whatever the user typed. Older documents stored numbers,
// newer ones strings; both decode.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

// Int reports the quantity as an integer when it parses as one.
func (q Quantity) Int() (int, bool) {
	n, err := strconv.Atoi(string(q))
	return n, err == nil
}

// Default returns the seeded document.
func Default() *Document {
	return &Document{
		Version: SchemaVersion,
		Accounts: []Account{
			{
				FirstName: "Admin",
				LastName:  "User",
				Email:     "admin@example.com",
				Password:  "Password123!",
				Role:      RoleAdmin,
				Verified:  true,
			},
		},
		Departments: []Department{
			{ID: "dept-1", Name: "Engineering", Desc: "Software team"},
			{ID: "dept-2", Name: "HR", Desc: "Human Resources"},
		},
		Employees: []Employee{},
		Requests:  []Request{},
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Version:     d.Version,
		Accounts:    append([]Account{}, d.Accounts...),
		Departments: append([]Department{}, d.Departments...),
		Employees:   append([]Employee{}, d.Employees...),
		Requests:    make([]Request, len(d.Requests)),
	}
	for i, r := range d.Requests {
		r.Items = append([]Item{}, r.Items...)
		c.Requests[i] = r
	}
	return c
}

// Migrate brings a decoded document up to SchemaVersion. Missing
// collections become empty. It reports whether anything changed.
func (d *Document) Migrate() bool {
	changed := false
	if d.Version < 1 {
		d.Version = 1
		changed = true
	}
	if d.Accounts == nil {
		d.Accounts = []Account{}
		changed = true
	}
	if d.Departments == nil {
		d.Departments = []Department{}
		changed = true
	}
	if d.Employees == nil {
		d.Employees = []Employee{}
		changed = true
	}
	if d.Requests == nil {
		d.Requests = []Request{}
		changed = true
	}
	if d.Version == 1 {
		// v1 documents could carry accounts without a role and requests
		// without a status or item list.
		for i := range d.Accounts {
			if d.Accounts[i].Role == "" {
				d.Accounts[i].Role = RoleUser
			}
		}
		for i := range d.Requests {
			if d.Requests[i].Status == "" {
				d.Requests[i].Status = StatusPending
			}
			if d.Requests[i].Items == nil {
				d.Requests[i].Items = []Item{}
			}
		}
		d.Version = SchemaVersion
		changed = true
	}
	return changed
}

func (d *Document) AccountIndex(email string) int {
	for i, a := range d.Accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}

func (d *Document) FindAccount(email string) (*Account, bool) {
	if i := d.AccountIndex(email); i >= 0 {
		return &d.Accounts[i], true
	}
	return nil, false
}

// EmailTaken reports whether an account other than the one at skip uses
// email. Pass -1 to check against every account.
func (d *Document) EmailTaken(email string, skip int) bool {
	for i, a := range d.Accounts {
		if i != skip && a.Email == email {
			return true
		}
	}
	return false
}

func (d *Document) HasDepartment(id string) bool {
	for _, dep := range d.Departments {
		if dep.ID == id {
			return true
		}
	}
	return false
}
