package store_test

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/core/events"
	"github.com/frahmantamala/org-portal/internal/store"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

// flakyBackend fails reads and writes on demand.
type flakyBackend struct {
	*store.MemoryBackend
	failGet bool
	failSet bool
}

func (f *flakyBackend) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, goerrors.New("i/o error")
	}
	return f.MemoryBackend.Get(key)
}

func (f *flakyBackend) Set(key, value string) error {
	if f.failSet {
		return goerrors.New("disk full")
	}
	return f.MemoryBackend.Set(key, value)
}

func persisted(backend store.Backend) *document.Document {
	raw, found, err := backend.Get(store.DefaultDocumentKey)
	Expect(err).NotTo(HaveOccurred())
	Expect(found).To(BeTrue())
	var doc document.Document
	Expect(json.Unmarshal([]byte(raw), &doc)).To(Succeed())
	return &doc
}

var _ = Describe("Store", func() {
	var (
		backend *flakyBackend
		bus     *events.EventBus
		st      *store.Store
	)

	BeforeEach(func() {
		backend = &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
		bus = events.NewEventBus(logger.Discard())
		st = store.New(backend, "", bus, logger.Discard())
	})

	Describe("Load", func() {
		It("seeds and persists the default document when storage is empty", func() {
			doc, err := st.Load()
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.Accounts).To(HaveLen(1))
			admin := doc.Accounts[0]
			Expect(admin.Email).To(Equal("admin@example.com"))
			Expect(admin.Role).To(Equal(document.RoleAdmin))
			Expect(admin.Verified).To(BeTrue())
			Expect(doc.Departments).To(HaveLen(2))
			Expect(doc.Employees).To(BeEmpty())
			Expect(doc.Requests).To(BeEmpty())

			Expect(persisted(backend)).To(Equal(doc))
		})

		It("reseeds when the stored bytes are not a document", func() {
			Expect(backend.Set(store.DefaultDocumentKey, "{not json")).To(Succeed())

			doc, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(Equal(document.Default()))
			Expect(persisted(backend)).To(Equal(document.Default()))
		})

		It("defaults missing collections to empty ones", func() {
			Expect(backend.Set(store.DefaultDocumentKey,
				`{"accounts":[{"firstName":"A","lastName":"B","email":"a@x.com","password":"secret1","verified":true}]}`)).To(Succeed())

			doc, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Accounts).To(HaveLen(1))
			Expect(doc.Accounts[0].Role).To(Equal(document.RoleUser))
			Expect(doc.Departments).NotTo(BeNil())
			Expect(doc.Departments).To(BeEmpty())
			Expect(doc.Employees).NotTo(BeNil())
			Expect(doc.Requests).NotTo(BeNil())
			Expect(doc.Version).To(Equal(document.SchemaVersion))

			Expect(persisted(backend).Version).To(Equal(document.SchemaVersion))
		})

		It("accepts numeric and string quantities", func() {
			Expect(backend.Set(store.DefaultDocumentKey, `{"version":2,"requests":[
				{"id":"r1","type":"Equipment","items":[{"name":"Laptop","qty":2},{"name":"Mouse","qty":"3"}],
				 "status":"Pending","date":"2026-01-02","employeeEmail":"a@x.com"}]}`)).To(Succeed())

			doc, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
			items := doc.Requests[0].Items
			Expect(items[0].Qty).To(Equal(document.Quantity("2")))
			Expect(items[1].Qty).To(Equal(document.Quantity("3")))
			n, ok := items[0].Qty.Int()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(2))
		})

		It("round-trips a document through save and load", func() {
			doc := document.Default()
			doc.Employees = append(doc.Employees, document.Employee{
				EmpID: "E-1", Email: "admin@example.com", Position: "Lead", DeptID: "dept-1", HireDate: "2026-01-01",
			})
			doc.Requests = append(doc.Requests, document.Request{
				ID: "r1", Type: "Supplies", Status: document.StatusPending, Date: "2026-01-02",
				EmployeeEmail: "admin@example.com",
				Items:         []document.Item{{Name: "Pen", Qty: "10"}},
			})
			Expect(st.Save(doc)).To(Succeed())

			reloaded := store.New(backend, "", bus, logger.Discard())
			loaded, err := reloaded.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(doc))
		})
	})

	Describe("Mutate", func() {
		It("refuses to write when the stored document cannot be read", func() {
			stored := document.Default()
			for i := 0; i < 5; i++ {
				stored.Accounts = append(stored.Accounts, document.Account{Email: fmt.Sprintf("u%d@x.com", i), Role: document.RoleUser})
			}
			raw, err := json.Marshal(stored)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Set(store.DefaultDocumentKey, string(raw))).To(Succeed())

			backend.failGet = true
			_, err = st.Mutate(func(doc *document.Document) error {
				doc.Departments = append(doc.Departments, document.Department{ID: "dept-3", Name: "Ops"})
				return nil
			})
			Expect(err).To(HaveOccurred())

			backend.failGet = false
			Expect(persisted(backend).Accounts).To(HaveLen(6))
			Expect(persisted(backend).Departments).To(HaveLen(2))
		})

		BeforeEach(func() {
			_, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
		})

		It("persists the change and swaps the snapshot", func() {
			before := st.Document()

			after, err := st.Mutate(func(doc *document.Document) error {
				doc.Departments = append(doc.Departments, document.Department{ID: "dept-3", Name: "Ops"})
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(before.Departments).To(HaveLen(2))
			Expect(st.Document()).To(BeIdenticalTo(after))
			Expect(persisted(backend).Departments).To(HaveLen(3))
		})

		It("writes nothing when the mutation fails", func() {
			before := st.Document()

			_, err := st.Mutate(func(doc *document.Document) error {
				doc.Departments = nil
				return errors.ErrNoItems
			})
			Expect(err).To(MatchError(errors.ErrNoItems))

			Expect(st.Document()).To(BeIdenticalTo(before))
			Expect(persisted(backend).Departments).To(HaveLen(2))
		})

		It("keeps memory and storage in step when the write fails", func() {
			before := st.Document()
			backend.failSet = true

			_, err := st.Mutate(func(doc *document.Document) error {
				doc.Accounts = append(doc.Accounts, document.Account{Email: "new@x.com"})
				return nil
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeInternal))

			Expect(st.Document()).To(BeIdenticalTo(before))
			Expect(st.Document().Accounts).To(HaveLen(1))
			Expect(persisted(backend).Accounts).To(HaveLen(1))
		})

		It("announces the change after releasing the document", func() {
			var seen int
			bus.Subscribe(events.EventTypeDocumentChanged, func(ctx context.Context, event events.Event) error {
				// reading back from a handler must not block
				seen = len(st.Document().Departments)
				return nil
			})

			_, err := st.Mutate(func(doc *document.Document) error {
				doc.Departments = doc.Departments[:1]
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal(1))
		})
	})

	Describe("Reset", func() {
		It("replaces the document with the default seed", func() {
			_, err := st.Load()
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Mutate(func(doc *document.Document) error {
				doc.Departments = []document.Department{}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			doc, err := st.Reset()
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(Equal(document.Default()))
			Expect(persisted(backend)).To(Equal(document.Default()))
		})
	})

	Describe("scalar values", func() {
		It("consumes a value exactly once", func() {
			Expect(st.SetValue(store.KeyJustVerified, "true")).To(Succeed())

			v, err := st.ConsumeValue(store.KeyJustVerified)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("true"))

			v, err = st.ConsumeValue(store.KeyJustVerified)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeEmpty())
		})

		It("reads an absent value as empty", func() {
			v, err := st.Value(store.KeySessionToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeEmpty())
		})
	})

	Describe("MemoryBackend", func() {
		It("refuses every operation once closed", func() {
			mem := store.NewMemoryBackend()
			Expect(mem.Close()).To(Succeed())

			Expect(mem.Ping()).To(MatchError(store.ErrBackendClosed))
			Expect(mem.Set("k", "v")).To(MatchError(store.ErrBackendClosed))
			_, _, err := mem.Get("k")
			Expect(err).To(MatchError(store.ErrBackendClosed))
		})
	})
})
