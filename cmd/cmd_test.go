package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

var _ = Describe("loadConfig", func() {
	It("falls back to defaults without a config file", func() {
		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageFile))
		Expect(cfg.Storage.DocumentKey).To(Equal("ipt_demo_v1"))
		Expect(cfg.Observability.Logging.Level).To(Equal("info"))
	})

	It("reads config.yml and lets the environment override it", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
http_server:
  port: 9090
storage:
  driver: memory
`), 0o644)).To(Succeed())
		GinkgoT().Setenv("ENV_OBSERVABILITY_LOGGING_LEVEL", "debug")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageMemory))
		Expect(cfg.Observability.Logging.Level).To(Equal("debug"))
	})

	It("rejects an unknown storage driver", func() {
		GinkgoT().Setenv("ENV_STORAGE_DRIVER", "redis")
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(MatchError(ContainSubstring("Driver")))
	})

	It("requires a source for sql drivers", func() {
		GinkgoT().Setenv("ENV_STORAGE_DRIVER", "sqlite")
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(MatchError(ContainSubstring("Source")))
	})
})

var _ = Describe("openBackend", func() {
	It("opens each storage driver", func() {
		for _, cfg := range []internal.StorageConfig{
			{Driver: internal.StorageMemory},
			{Driver: internal.StorageFile, Dir: GinkgoT().TempDir()},
			{Driver: internal.StorageSQLite, Source: ":memory:"},
		} {
			backend, closeFn, err := openBackend(cfg)
			Expect(err).NotTo(HaveOccurred(), cfg.Driver)
			Expect(backend.Ping()).To(Succeed(), cfg.Driver)
			if closeFn != nil {
				Expect(closeFn()).To(Succeed())
			}
		}
	})

	It("refuses an unsupported driver", func() {
		_, _, err := openBackend(internal.StorageConfig{Driver: "redis"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("route command", func() {
	var deps *Dependencies

	BeforeEach(func() {
		cfg := &internal.Config{Storage: internal.StorageConfig{Driver: internal.StorageMemory}}
		backend, closeFn, err := openBackend(cfg.Storage)
		Expect(err).NotTo(HaveOccurred())
		deps = buildDependencies(cfg, logger.Discard(), backend)
		deps.closeBackend = closeFn
		DeferCleanup(deps.Close)

		_, err = deps.Store.Load()
		Expect(err).NotTo(HaveOccurred())
	})

	resolve := func(fragment string) map[string]interface{} {
		var out bytes.Buffer
		c := &cobra.Command{}
		c.SetOut(&out)
		Expect(resolveRoute(c, deps, fragment)).To(Succeed())

		var result map[string]interface{}
		Expect(json.Unmarshal(out.Bytes(), &result)).To(Succeed())
		return result
	}

	It("redirects an anonymous session to login", func() {
		result := resolve("#/accounts")
		Expect(result["location"]).To(Equal("#/login"))
	})

	It("resolves admin pages for a restored admin session", func() {
		_, err := deps.Auth.Login(auth.LoginDTO{Email: "admin@example.com", Password: "Password123!"})
		Expect(err).NotTo(HaveOccurred())

		restarted := buildDependencies(deps.Config, logger.Discard(), deps.Backend)
		restarted.Auth.RestoreSession()
		deps = restarted

		result := resolve("#/accounts")
		Expect(result["location"]).To(Equal("#/accounts"))
		Expect(result["session"]).To(Equal("admin@example.com"))
	})
})
