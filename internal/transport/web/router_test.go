package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/infra/database/memory"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/group"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/health"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/item"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/sharing"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/user"
)

type apiErr struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

type envelope struct {
	Error    *apiErr         `json:"error"`
	Response json.RawMessage `json:"response"`
	Data     json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.NewStore(8) // маленькое окно отдачи, чтобы стрим шёл кусками
	require.NoError(t, store.EnsureWorldGroup(t.Context()))

	logger := log.New(io.Discard, "", 0)
	hh := health.New(logger, store, nil)
	uh := user.New(logger, store, nil, 60)
	gh := group.New(logger, store)
	ih := item.New(logger, store, nil, 60, 8)
	sh := sharing.New(logger, store)

	srv := httptest.NewServer(newRouter(hh, uh, gh, ih, sh, logger))
	t.Cleanup(srv.Close)
	return srv, store
}

func postForm(t *testing.T, srv *httptest.Server, path string, form url.Values) (int, envelope) {
	t.Helper()
	resp, err := http.PostForm(srv.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (int, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func get(t *testing.T, srv *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func patchMultipart(t *testing.T, srv *httptest.Server, method, path string, fields map[string]string, content []byte) (int, envelope) {
	t.Helper()
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("content", "content.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(method, srv.URL+path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createUser(t *testing.T, srv *httptest.Server, email string) domain.User {
	t.Helper()
	status, env := postForm(t, srv, "/v1/users", url.Values{
		"email":               {email},
		"encryption_key":      {"pub-" + email},
		"encryption_key_salt": {"salt"},
	})
	require.Equal(t, http.StatusOK, status)
	var u domain.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	return u
}

func createGroup(t *testing.T, srv *httptest.Server, hostID domain.UserID, name string) domain.Group {
	t.Helper()
	status, env := postForm(t, srv, "/v1/groups", url.Values{
		"host_user_id":            {strconv.FormatInt(hostID, 10)},
		"name":                    {name},
		"grouping_encryption_key": {"wrapped-" + name},
	})
	require.Equal(t, http.StatusOK, status)
	var g domain.Group
	require.NoError(t, json.Unmarshal(env.Data, &g))
	return g
}

func createItem(t *testing.T, srv *httptest.Server, ownerID domain.UserID, content []byte) domain.ItemID {
	t.Helper()
	status, env := patchMultipart(t, srv, http.MethodPost, "/v1/items", map[string]string{
		"owner_user_id":        strconv.FormatInt(ownerID, 10),
		"encryption_key":       "item-key",
		"encryption_key_nonce": "key-nonce",
		"content_nonce":        "content-nonce",
	}, content)
	require.Equal(t, http.StatusOK, status)
	var id domain.ItemID
	require.NoError(t, json.Unmarshal(env.Data, &id))
	return id
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := get(t, srv, "/v1/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)

	status, env = get(t, srv, "/v1/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)
}

func TestUserEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := createUser(t, srv, "alice@example.com")
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "pub-alice@example.com", alice.EncryptionKey)

	// повторный email — наружу безликий 500
	status, env := postForm(t, srv, "/v1/users", url.Values{
		"email":          {"alice@example.com"},
		"encryption_key": {"pub2"},
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeUnexpected, env.Error.Code)

	// кривой email — 400
	status, env = postForm(t, srv, "/v1/users", url.Values{
		"email":          {"not-an-email"},
		"encryption_key": {"pub"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeBadParams, env.Error.Code)

	// выборка по email
	status, env = get(t, srv, "/v1/users?email=alice@example.com")
	require.Equal(t, http.StatusOK, status)
	var got domain.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, alice.ID, got.ID)

	// неизвестный email — 403, существование не раскрываем
	status, env = get(t, srv, "/v1/users?email=ghost@example.com")
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeForbidden, env.Error.Code)

	createUser(t, srv, "bob@example.com")
	status, env = get(t, srv, "/v1/users/all")
	require.Equal(t, http.StatusOK, status)
	var all []domain.User
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)
}

func TestGroupEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := createUser(t, srv, "alice@example.com")
	bob := createUser(t, srv, "bob@example.com")

	private := createGroup(t, srv, alice.ID, "alice private")
	assert.True(t, private.Private)

	shared := createGroup(t, srv, alice.ID, "friends")
	assert.False(t, shared.Private)

	// приглашение боба
	status, env := postForm(t, srv, "/v1/groups/invite", url.Values{
		"invitee_id":              {strconv.FormatInt(bob.ID, 10)},
		"group_id":                {strconv.FormatInt(shared.ID, 10)},
		"grouping_encryption_key": {"wrapped-for-bob"},
	})
	require.Equal(t, http.StatusOK, status)
	var gr domain.Grouping
	require.NoError(t, json.Unmarshal(env.Data, &gr))
	assert.Equal(t, bob.ID, gr.UserID)

	// членства боба
	status, env = get(t, srv, "/v1/memberships?user_id="+strconv.FormatInt(bob.ID, 10))
	require.Equal(t, http.StatusOK, status)
	var ms []domain.Membership
	require.NoError(t, json.Unmarshal(env.Data, &ms))
	require.Len(t, ms, 1)
	assert.Equal(t, shared.ID, ms[0].Group.ID)
	assert.Equal(t, "wrapped-for-bob", ms[0].Grouping.EncryptionKey)

	// groupings по набору групп
	status, env = doJSON(t, srv, http.MethodPost, "/v1/groupings", map[string]any{
		"user_id":   alice.ID,
		"group_ids": []int64{private.ID, shared.ID},
	})
	require.Equal(t, http.StatusOK, status)
	var gm map[string]domain.Grouping
	require.NoError(t, json.Unmarshal(env.Data, &gm))
	assert.Len(t, gm, 2)

	// приглашение в несуществующую группу — 403
	status, env = postForm(t, srv, "/v1/groups/invite", url.Values{
		"invitee_id":              {strconv.FormatInt(bob.ID, 10)},
		"group_id":                {"404"},
		"grouping_encryption_key": {"k"},
	})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeForbidden, env.Error.Code)
}

func TestItemUploadAndStreaming(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := createUser(t, srv, "alice@example.com")
	private := createGroup(t, srv, alice.ID, "alice private")

	payload := []byte("0123456789abcdefghij") // больше одного окна отдачи
	id := createItem(t, srv, alice.ID, payload)

	// мета
	status, env := get(t, srv, "/v1/items/"+strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusOK, status)
	var it domain.Item
	require.NoError(t, json.Unmarshal(env.Data, &it))
	assert.Equal(t, "content-nonce", it.ContentNonce)

	// поток: байт в байт, с Content-Length
	resp, err := http.Get(srv.URL + "/v1/items/" + strconv.FormatInt(id, 10) + "/content")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(len(payload)), resp.Header.Get("Content-Length"))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// бутстрап-шаринг на личную группу
	status, env = get(t, srv, "/v1/items/"+strconv.FormatInt(id, 10)+"/sharings")
	require.Equal(t, http.StatusOK, status)
	var ss []domain.Sharing
	require.NoError(t, json.Unmarshal(env.Data, &ss))
	require.Len(t, ss, 1)
	assert.Equal(t, private.ID, ss[0].GroupID)

	// обновление контента
	newPayload := []byte("totally different ciphertext")
	status, env = patchMultipart(t, srv, http.MethodPatch, "/v1/items", map[string]string{
		"item_id":       strconv.FormatInt(id, 10),
		"content_nonce": "content-nonce-2",
	}, newPayload)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)

	resp, err = http.Get(srv.URL + "/v1/items/" + strconv.FormatInt(id, 10) + "/content")
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, newPayload, got)

	// контент несуществующего айтема — 403 до начала потока
	status, env = get(t, srv, "/v1/items/999/content")
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeForbidden, env.Error.Code)
}

func TestSharingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := createUser(t, srv, "alice@example.com")
	createGroup(t, srv, alice.ID, "alice private")
	shared := createGroup(t, srv, alice.ID, "friends")
	id := createItem(t, srv, alice.ID, []byte("ciphertext"))

	// расшарить на группу
	status, env := postForm(t, srv, "/v1/sharings", url.Values{
		"item_id":              {strconv.FormatInt(id, 10)},
		"group_id":             {strconv.FormatInt(shared.ID, 10)},
		"encryption_key":       {"wrapped-for-friends"},
		"encryption_key_nonce": {"nonce"},
	})
	require.Equal(t, http.StatusOK, status)
	var sh domain.Sharing
	require.NoError(t, json.Unmarshal(env.Data, &sh))
	assert.Equal(t, shared.ID, sh.GroupID)

	// sharing пары виден
	q := "/v1/sharings?item_id=" + strconv.FormatInt(id, 10) + "&group_id=" + strconv.FormatInt(shared.ID, 10)
	status, env = get(t, srv, q)
	require.Equal(t, http.StatusOK, status)
	var got domain.Sharing
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "wrapped-for-friends", got.EncryptionKey)

	// ротация ключа
	status, env = postForm(t, srv, "/v1/sharings", url.Values{})
	assert.Equal(t, http.StatusBadRequest, status)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/v1/sharings", strings.NewReader(url.Values{
		"item_id":              {strconv.FormatInt(id, 10)},
		"group_id":             {strconv.FormatInt(shared.ID, 10)},
		"encryption_key":       {"rotated"},
		"encryption_key_nonce": {"nonce-2"},
	}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// отзыв
	status, env = doJSON(t, srv, http.MethodDelete, "/v1/sharings", map[string]int64{
		"item_id":  id,
		"group_id": shared.ID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)

	// после отзыва пара недоступна, 403
	status, env = get(t, srv, q)
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeForbidden, env.Error.Code)

	// повторный отзыв — тоже 200 (идемпотентность)
	status, _ = doJSON(t, srv, http.MethodDelete, "/v1/sharings", map[string]int64{
		"item_id":  id,
		"group_id": shared.ID,
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "test-req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "test-req-42", resp.Header.Get("X-Request-ID"))

	// без заголовка сервер генерирует свой
	resp2, err := http.Get(srv.URL + "/v1/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get("X-Request-ID"))
}
