package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamedex/tierboard/internal/models"
	"github.com/gamedex/tierboard/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeRecord(t *testing.T, w *httptest.ResponseRecorder) models.TierlistRecord {
	t.Helper()
	var rec models.TierlistRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	return rec
}

func TestCreateAndGetTierlist(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/tierlists", models.TierlistCreate{
		Name:    "My List",
		OwnerID: 7,
		Data:    models.TierData{models.RankS: {1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeRecord(t, w)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.ShareCode)

	w = doRequest(t, srv, http.MethodGet, "/api/tierlists/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeRecord(t, w)
	assert.Equal(t, "My List", fetched.Name)
	assert.Equal(t, 7, fetched.OwnerID)
	assert.Equal(t, []int{1}, fetched.Data[models.RankS])
}

func TestCreateTierlistRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/tierlists", models.TierlistCreate{OwnerID: 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTierlistNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/tierlists/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTierlistForbiddenForNonOwner(t *testing.T) {
	srv, store := newTestServer(t)
	rec, err := store.CreateRecord("Mine", 7, models.NewTierData())
	require.NoError(t, err)

	name := "Hijacked"
	w := doRequest(t, srv, http.MethodPut, "/api/tierlists/"+rec.ID, models.TierlistUpdate{
		OwnerID: 99,
		Name:    &name,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	fetched, err := store.FetchRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", fetched.Name)
}

func TestUpdateTierlistByOwner(t *testing.T) {
	srv, store := newTestServer(t)
	rec, err := store.CreateRecord("Mine", 7, models.NewTierData())
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodPut, "/api/tierlists/"+rec.ID, models.TierlistUpdate{
		OwnerID: 7,
		Data:    models.TierData{models.RankA: {3}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeRecord(t, w)
	assert.Equal(t, "Mine", updated.Name, "name untouched when omitted")
	assert.Equal(t, []int{3}, updated.Data[models.RankA])
}

func TestDeleteTierlist(t *testing.T) {
	srv, store := newTestServer(t)
	rec, err := store.CreateRecord("Doomed", 7, models.NewTierData())
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodDelete, "/api/tierlists/"+rec.ID+"?owner_id=99", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, srv, http.MethodDelete, "/api/tierlists/"+rec.ID+"?owner_id=7", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/tierlists/"+rec.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloneTierlist(t *testing.T) {
	srv, store := newTestServer(t)
	original, err := store.CreateRecord("Theirs", 99, models.TierData{models.RankS: {1}})
	require.NoError(t, err)

	// anyone may clone, and the copy belongs to the requesting user
	w := doRequest(t, srv, http.MethodPost, "/api/tierlists/"+original.ID+"/clone", models.TierlistClone{
		Name:    "My Copy",
		OwnerID: 7,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	clone := decodeRecord(t, w)
	assert.NotEqual(t, original.ID, clone.ID)
	assert.Equal(t, 7, clone.OwnerID)
	assert.Equal(t, []int{1}, clone.Data[models.RankS])

	// the original is untouched
	fetched, err := store.FetchRecord(original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theirs", fetched.Name)
	assert.Equal(t, 99, fetched.OwnerID)
}

func TestGetTierlistByShareCode(t *testing.T) {
	srv, store := newTestServer(t)
	rec, err := store.CreateRecord("Shared", 7, models.TierData{models.RankB: {2}})
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodGet, "/api/s/"+rec.ShareCode, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeRecord(t, w)
	assert.Equal(t, rec.ID, fetched.ID)
	assert.Equal(t, []int{2}, fetched.Data[models.RankB])
}

func TestListTierlists(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreateRecord("First", 7, models.TierData{models.RankS: {1, 2}})
	require.NoError(t, err)
	_, err = store.CreateRecord("Other", 99, models.NewTierData())
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodGet, "/api/users/7/tierlists", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []models.TierlistSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "First", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].ItemCount)
}

func TestGetCatalog(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.BulkCreateItems([]models.Item{
		{ID: 1, OwnerID: 7, Title: "Hades"},
		{ID: 2, OwnerID: 7, Title: "Celeste"},
		{ID: 3, OwnerID: 8, Title: "Doom Eternal"},
	}))

	w := doRequest(t, srv, http.MethodGet, "/api/users/7/items", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ItemList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.TotalCount)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Celeste", resp.Items[0].Title)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
