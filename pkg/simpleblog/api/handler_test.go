package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/api"
	"github.com/tendant/simple-blog/pkg/simpleblog/password"
	"github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
	memorystorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/memory"
)

func setupTestServer(t *testing.T) *httptest.Server {
	svc, err := simpleblog.New(
		simpleblog.WithRepository(memory.New()),
		simpleblog.WithBlobStore(memorystorage.New()),
		simpleblog.WithHasher(password.NewBcryptHasher(4)),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewHandler(svc).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRegistrationFlow(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/registro", map[string]string{
		"nombre": "ana", "email": "a@x.com", "password": "p1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]string
	decodeJSON(t, resp, &created)
	assert.NotEmpty(t, created["message"])

	// Same nombre again, different email and password.
	resp = postJSON(t, srv.URL+"/registro", map[string]string{
		"nombre": "ana", "email": "b@x.com", "password": "p2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var dup map[string]string
	decodeJSON(t, resp, &dup)
	assert.Equal(t, "failed", dup["status"])
}

func TestLoginFlow(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/registro", map[string]string{
		"nombre": "ana", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/", map[string]string{"nombre": "ana", "password": "wrong"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decodeJSON(t, resp, &body)
		assert.Equal(t, "failed", body["status"])
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/", map[string]string{"nombre": "nadie", "password": "p1"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decodeJSON(t, resp, &body)
		assert.Equal(t, "failed", body["status"])
	})

	t.Run("valid credentials", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/", map[string]string{"nombre": "ana", "password": "p1"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Message string `json:"message"`
			UserID  int64  `json:"idUsuario"`
		}
		decodeJSON(t, resp, &body)
		assert.NotEmpty(t, body.Message)
		assert.NotZero(t, body.UserID)
	})
}

func TestUserLookupNeverLeaksHash(t *testing.T) {
	srv := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/registro", map[string]string{
		"nombre": "ana", "email": "a@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/", map[string]string{"nombre": "ana", "password": "p1"})
	var login struct {
		UserID int64 `json:"idUsuario"`
	}
	decodeJSON(t, resp, &login)

	resp, err := http.Get(fmt.Sprintf("%s/usuariosById?id=%d", srv.URL, login.UserID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	var user map[string]any
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "ana", user["nombre"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, string(raw), "$2a$") // no bcrypt hash on the wire

	t.Run("unknown id yields 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/usuariosById?id=9999")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUploadAndServeMedia(t *testing.T) {
	srv := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "foto.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var upload struct {
		File string `json:"file"`
	}
	decodeJSON(t, resp, &upload)
	assert.Regexp(t, regexp.MustCompile(`^/media/\d+-foto\.png$`), upload.File)

	// The blob is served read-only under its reference path.
	resp, err = http.Get(srv.URL + upload.File)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(body))
}

func TestPostEndpoints(t *testing.T) {
	srv := setupTestServer(t)
	client := srv.Client()

	create := func(title, category string) {
		resp := postJSON(t, srv.URL+"/crearPost", map[string]any{
			"titulo": title, "descripcion": "desc", "categoria": category,
			"file": "/media/1-a.png", "autor": 1,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	create("uno", "viajes")
	create("dos", "comida")

	var listing []map[string]any

	t.Run("inicio lists every post", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/inicio")
		require.NoError(t, err)
		decodeJSON(t, resp, &listing)
		require.Len(t, listing, 2)
		assert.Contains(t, listing[0], "id_post")
		assert.Contains(t, listing[0], "titulo")
		assert.Contains(t, listing[0], "imagen")
		assert.Contains(t, listing[0], "categoria")
		assert.NotContains(t, listing[0], "descripcion")
	})

	t.Run("categoria filters when asked", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/categoria?categoria=viajes")
		require.NoError(t, err)
		var filtered []map[string]any
		decodeJSON(t, resp, &filtered)
		require.Len(t, filtered, 1)
		assert.Equal(t, "uno", filtered[0]["titulo"])

		resp, err = http.Get(srv.URL + "/categoria")
		require.NoError(t, err)
		var all []map[string]any
		decodeJSON(t, resp, &all)
		assert.Len(t, all, 2)
	})

	postID := int64(listing[0]["id_post"].(float64))

	t.Run("postsById returns the full record", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/postsById?id=%d", srv.URL, postID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var post map[string]any
		decodeJSON(t, resp, &post)
		assert.Equal(t, "uno", post["titulo"])
		assert.Equal(t, "desc", post["descripcion"])
		assert.EqualValues(t, 1, post["autor"])
	})

	t.Run("editarPost replaces mutable fields", func(t *testing.T) {
		b, _ := json.Marshal(map[string]any{
			"titulo": "uno editado", "descripcion": "otra", "file": "/media/2-b.png", "categoria": "viajes",
		})
		req, err := http.NewRequest(http.MethodPut,
			fmt.Sprintf("%s/editarPost/%d", srv.URL, postID), bytes.NewReader(b))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		getResp, err := http.Get(fmt.Sprintf("%s/postsById?id=%d", srv.URL, postID))
		require.NoError(t, err)
		var post map[string]any
		decodeJSON(t, getResp, &post)
		assert.Equal(t, "uno editado", post["titulo"])
		assert.EqualValues(t, 1, post["autor"], "author is immutable")
	})

	t.Run("delete removes the post", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete,
			fmt.Sprintf("%s/postsById?id=%d", srv.URL, postID), nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		getResp, err := http.Get(fmt.Sprintf("%s/postsById?id=%d", srv.URL, postID))
		require.NoError(t, err)
		defer getResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	})
}

func TestBadRequests(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Post(srv.URL+"/registro", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/postsById?id=abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/upload", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
