package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"todo-list/internal/api"
	"todo-list/internal/config"
	"todo-list/internal/migrate"
	repo "todo-list/internal/repo/todo"
	"todo-list/internal/scheme"
	service "todo-list/internal/service/todo"
	"todo-list/internal/store"
	"todo-list/internal/view"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("API Endpoints testing", func() {
	var (
		db       *sqlx.DB
		todoRepo *repo.SQLiteTodoRepo
		handler  http.Handler
	)

	BeforeEach(func() {
		var err error
		ctx := context.Background()
		cfg := config.Defaults().Database
		cfg.Path = filepath.Join(GinkgoT().TempDir(), "todo.db")

		db, err = store.Open(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrate.Apply(ctx, db.DB)).To(Succeed())

		todoRepo = repo.NewSQLiteTodoRepo(db)
		s := api.NewServer(service.NewService(todoRepo), view.MustNew(), db)
		handler = s.Handler()
	})

	AfterEach(func() {
		if db != nil {
			_ = db.Close()
		}
	})

	do := func(method, target string, form url.Values) *httptest.ResponseRecorder {
		var body *strings.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(method, target, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	postRaw := func(target, raw string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(raw))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	list := func() []scheme.Entry {
		entries, err := todoRepo.List(context.Background())
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return entries
	}

	expectRedirect := func(rr *httptest.ResponseRecorder) {
		ExpectWithOffset(1, rr.Code).To(Equal(http.StatusSeeOther), "body=%s", rr.Body.String())
		ExpectWithOffset(1, rr.Header().Get("Location")).To(Equal("/"))
		ExpectWithOffset(1, rr.Body.String()).To(BeEmpty())
	}

	Describe("Health check endpoint", func() {
		It("GET /health returns successful response", func() {
			rr := do(http.MethodGet, "/health", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(Equal("ok"))
		})

		It("GET /health returns 500 once the pool is closed", func() {
			Expect(db.Close()).To(Succeed())
			rr := do(http.MethodGet, "/health", nil)
			Expect(rr.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("GET /", func() {
		It("renders an empty list on an empty store", func() {
			rr := do(http.MethodGet, "/", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("Content-Type")).To(HavePrefix("text/html"))
			Expect(rr.Body.String()).To(ContainSubstring("<ul>"))
			Expect(strings.Count(rr.Body.String(), "<li>")).To(Equal(0))
		})

		It("renders stored entries escaped", func() {
			Expect(todoRepo.Create(context.Background(), "buy milk")).To(Succeed())
			Expect(todoRepo.Create(context.Background(), "<b>bold</b>")).To(Succeed())

			rr := do(http.MethodGet, "/", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			body := rr.Body.String()
			Expect(strings.Count(body, "<li>")).To(Equal(2))
			Expect(body).To(ContainSubstring("buy milk"))
			Expect(body).To(ContainSubstring("&lt;b&gt;bold&lt;/b&gt;"))
		})

		It("returns 404 for unknown paths", func() {
			rr := do(http.MethodGet, "/nope", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("returns a generic 500 when the store is unreachable", func() {
			Expect(db.Close()).To(Succeed())
			rr := do(http.MethodGet, "/", nil)
			Expect(rr.Code).To(Equal(http.StatusInternalServerError))
			Expect(rr.Body.String()).To(Equal("Internal Server Error\n"))
		})
	})

	Describe("POST /add", func() {
		It("stores the text and redirects to /", func() {
			rr := do(http.MethodPost, "/add", url.Values{"text": {"buy milk"}})
			expectRedirect(rr)

			entries := list()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Text).To(Equal("buy milk"))
			Expect(entries[0].Id).NotTo(BeZero())
		})

		It("accepts empty text", func() {
			rr := do(http.MethodPost, "/add", url.Values{"text": {""}})
			expectRedirect(rr)

			entries := list()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Text).To(Equal(""))
		})

		It("rejects a body without text", func() {
			rr := do(http.MethodPost, "/add", url.Values{"other": {"x"}})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(BeEmpty())
		})

		It("rejects a repeated text field and stores nothing", func() {
			rr := postRaw("/add", "text=a&text=b")
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(BeEmpty())
		})

		It("rejects a malformed body", func() {
			rr := postRaw("/add", "text=%zz")
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(BeEmpty())
		})

		It("rejects GET", func() {
			rr := do(http.MethodGet, "/add", nil)
			Expect(rr.Code).To(Equal(http.StatusMethodNotAllowed))
		})

		It("returns 500 when the store is unreachable", func() {
			Expect(db.Close()).To(Succeed())
			rr := do(http.MethodPost, "/add", url.Values{"text": {"x"}})
			Expect(rr.Code).To(Equal(http.StatusInternalServerError))
		})

		It("gives concurrent adds distinct ids without losing writes", func() {
			Expect(todoRepo.Create(context.Background(), "prior")).To(Succeed())

			const n = 16
			codes := make([]int, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					codes[i] = do(http.MethodPost, "/add", url.Values{"text": {fmt.Sprintf("item %d", i)}}).Code
				}(i)
			}
			wg.Wait()

			for _, c := range codes {
				Expect(c).To(Equal(http.StatusSeeOther))
			}
			entries := list()
			Expect(entries).To(HaveLen(n + 1))
			ids := make(map[uint32]struct{}, len(entries))
			for _, e := range entries {
				ids[e.Id] = struct{}{}
			}
			Expect(ids).To(HaveLen(n + 1))
		})
	})

	Describe("POST /delete", func() {
		BeforeEach(func() {
			for _, t := range []string{"one", "two", "three"} {
				Expect(todoRepo.Create(context.Background(), t)).To(Succeed())
			}
		})

		It("removes exactly the given id", func() {
			rr := do(http.MethodPost, "/delete", url.Values{"id": {"2"}})
			expectRedirect(rr)

			entries := list()
			Expect(entries).To(ConsistOf(
				scheme.Entry{Id: 1, Text: "one"},
				scheme.Entry{Id: 3, Text: "three"},
			))
		})

		It("treats an unknown id as a no-op", func() {
			rr := do(http.MethodPost, "/delete", url.Values{"id": {"9999"}})
			expectRedirect(rr)
			Expect(list()).To(HaveLen(3))
		})

		It("rejects a non-numeric id and leaves the store unchanged", func() {
			rr := do(http.MethodPost, "/delete", url.Values{"id": {"abc"}})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(HaveLen(3))
		})

		It("rejects a negative id", func() {
			rr := do(http.MethodPost, "/delete", url.Values{"id": {"-2"}})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(HaveLen(3))
		})

		It("rejects a missing id", func() {
			rr := do(http.MethodPost, "/delete", url.Values{})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(HaveLen(3))
		})

		It("returns 500 when the store is unreachable", func() {
			Expect(db.Close()).To(Succeed())
			rr := do(http.MethodPost, "/delete", url.Values{"id": {"1"}})
			Expect(rr.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("round trip through the page", func() {
		It("an added entry shows up on / and disappears after delete", func() {
			expectRedirect(do(http.MethodPost, "/add", url.Values{"text": {"walk dog"}}))

			page := do(http.MethodGet, "/", nil).Body.String()
			Expect(page).To(ContainSubstring("walk dog"))
			Expect(page).To(ContainSubstring(`name="id" value="1"`))

			expectRedirect(do(http.MethodPost, "/delete", url.Values{"id": {"1"}}))
			Expect(do(http.MethodGet, "/", nil).Body.String()).NotTo(ContainSubstring("walk dog"))
		})
	})
})
