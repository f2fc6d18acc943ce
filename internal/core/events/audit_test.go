package events_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/org-portal/internal/core/events"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

var _ = Describe("SubscribeAudit", func() {
	var (
		out *bytes.Buffer
		bus *events.EventBus
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		bus = events.NewEventBus(logger.Discard())
		events.SubscribeAudit(bus, slog.New(slog.NewJSONHandler(out, nil)))
	})

	It("logs session changes", func() {
		Expect(bus.Publish(context.Background(), events.NewSessionChangedEvent(true, "jane@x.com", "user"))).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"msg":"session changed"`))
		Expect(out.String()).To(ContainSubstring(`"email":"jane@x.com"`))
	})

	It("logs document changes with their version", func() {
		Expect(bus.Publish(context.Background(), events.NewDocumentChangedEvent(2))).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"msg":"document changed"`))
		Expect(out.String()).To(ContainSubstring(`"version":2`))
	})

	It("ignores page activations", func() {
		Expect(bus.Publish(context.Background(), events.NewPageActivatedEvent("home", "#/", nil))).To(Succeed())
		Expect(out.String()).To(BeEmpty())
	})
})
