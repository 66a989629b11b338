package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/internal/citizen/handler"
	"census/internal/citizen/service"
	"census/internal/citizen/store"
	"census/pkg/testutil"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemoryTx(), service.WithLogger(logger))
	r := chi.NewRouter()
	handler.New(svc, logger, nil).Register(r)
	return r
}

func person(id int, town, birth string, relatives ...int) map[string]any {
	if relatives == nil {
		relatives = []int{}
	}
	return map[string]any{
		"citizen_id": id,
		"town":       town,
		"street":     "Льва Толстого",
		"building":   "16к7стр5",
		"apartment":  7,
		"name":       "Иванов Иван Иванович",
		"birth_date": birth,
		"gender":     "male",
		"relatives":  relatives,
	}
}

type envelope struct {
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func call(t *testing.T, srv http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = testutil.NewRequest(t, method, path)
	} else {
		req = testutil.NewJSONRequest(t, method, path, body)
	}
	rr := testutil.DoRequest(srv, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

type citizenView struct {
	CitizenID int    `json:"citizen_id"`
	Town      string `json:"town"`
	Relatives []int  `json:"relatives"`
}

func listCitizens(t *testing.T, srv http.Handler, importID int) map[int]citizenView {
	t.Helper()
	rr := testutil.DoRequest(srv, testutil.NewRequest(t, http.MethodGet, path("/imports/%d/citizens", importID)))
	require.Equal(t, http.StatusOK, rr.Code)
	list := testutil.UnmarshalData[[]citizenView](t, rr)
	out := make(map[int]citizenView, len(list))
	for _, c := range list {
		out[c.CitizenID] = c
	}
	return out
}

func createImport(t *testing.T, srv http.Handler, citizens ...map[string]any) int {
	t.Helper()
	status, env := call(t, srv, http.MethodPost, "/imports", map[string]any{"citizens": citizens})
	require.Equal(t, http.StatusCreated, status, env.Errors)
	var created struct {
		ImportID int `json:"import_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ImportID
}

func TestImportLifecycle(t *testing.T) {
	srv := newServer(t)

	importID := createImport(t, srv,
		person(1, "Москва", "26.12.1986", 2),
		person(2, "Москва", "01.04.1986", 1),
		person(3, "Керчь", "23.11.1986"),
	)
	assert.Equal(t, 1, importID)

	citizens := listCitizens(t, srv, importID)
	assert.Equal(t, []int{2}, citizens[1].Relatives)
	assert.Equal(t, []int{1}, citizens[2].Relatives)
	assert.Equal(t, []int{}, citizens[3].Relatives)

	t.Run("patch relatives round trip", func(t *testing.T) {
		status, _ := patch(t, srv, importID, 3, map[string]any{"relatives": []int{1, 2, 2}})
		require.Equal(t, http.StatusOK, status)

		citizens := listCitizens(t, srv, importID)
		assert.Equal(t, []int{1, 2}, citizens[3].Relatives)
		assert.Equal(t, []int{2, 3}, citizens[1].Relatives)
		assert.Equal(t, []int{1, 3}, citizens[2].Relatives)

		status, _ = patch(t, srv, importID, 3, map[string]any{"relatives": []int{}})
		require.Equal(t, http.StatusOK, status)
		citizens = listCitizens(t, srv, importID)
		assert.Equal(t, []int{}, citizens[3].Relatives)
		assert.Equal(t, []int{2}, citizens[1].Relatives)
	})

	t.Run("patch returns the merged citizen", func(t *testing.T) {
		status, got := patch(t, srv, importID, 2, map[string]any{"town": "Тверь"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Тверь", got.Town)
		assert.Equal(t, []int{1}, got.Relatives)
	})

	t.Run("citizen_id cannot be patched", func(t *testing.T) {
		status, _ := patch(t, srv, importID, 2, map[string]any{"citizen_id": 2})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("birthdays always list twelve months", func(t *testing.T) {
		status, env := call(t, srv, http.MethodGet, path("/imports/%d/citizens/birthdays", importID), nil)
		require.Equal(t, http.StatusOK, status)
		var months map[string][]map[string]int
		require.NoError(t, json.Unmarshal(env.Data, &months))
		assert.Len(t, months, 12)
		assert.Equal(t, []map[string]int{{"citizen_id": 1, "presents": 1}}, months["4"])
		assert.Equal(t, []map[string]int{{"citizen_id": 2, "presents": 1}}, months["12"])
	})

	t.Run("age percentiles per town", func(t *testing.T) {
		status, env := call(t, srv, http.MethodGet, path("/imports/%d/towns/stat/percentile/age", importID), nil)
		require.Equal(t, http.StatusOK, status)
		var towns []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &towns))
		require.Len(t, towns, 3)
		assert.Equal(t, "Керчь", towns[0]["town"])
		for _, town := range towns {
			assert.Contains(t, town, "p50")
			assert.Contains(t, town, "p75")
			assert.Contains(t, town, "p99")
		}
	})
}

func TestRejectedImportsLeaveNoTrace(t *testing.T) {
	srv := newServer(t)

	status, env := call(t, srv, http.MethodPost, "/imports", map[string]any{"citizens": []any{
		person(1, "Москва", "26.12.1986", 2),
		person(2, "Москва", "01.04.1986"),
	}})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "citizens.0.relatives")

	status, env = call(t, srv, http.MethodPost, "/imports", map[string]any{"citizens": []any{
		person(1, "Москва", "1.1.2019"),
	}})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "citizens.0.birth_date")

	rr := testutil.DoRequest(srv, testutil.NewRequest(t, http.MethodGet, "/imports/1/citizens"))
	testutil.AssertStatusAndMessage(t, rr, http.StatusNotFound, "import_id 1 not found")

	assert.Equal(t, 1, createImport(t, srv, person(1, "Москва", "26.12.1986")))
}

func patch(t *testing.T, srv http.Handler, importID, citizenID int, body map[string]any) (int, citizenView) {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPatch, path("/imports/%d/citizens/%d", importID, citizenID), body)
	rr := testutil.DoRequest(srv, req)
	var c citizenView
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	}
	return rr.Code, c
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
