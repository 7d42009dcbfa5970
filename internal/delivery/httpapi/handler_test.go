package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/service"
	"github.com/aliskhannn/quiz-registry/internal/storage"
)

const (
	testSecret = "test-secret"
	owner      = entities.Identity("owner")
)

func newTestServer(t *testing.T) (*httptest.Server, *Authenticator) {
	t.Helper()

	store := storage.NewQuizStorage()
	stores := service.Stores{Owners: store, Actors: store, Questions: store}
	host, err := service.Bootstrap(context.Background(), store, stores, owner, zap.NewNop())
	require.NoError(t, err)

	auth := NewAuthenticator(testSecret)
	srv := httptest.NewServer(NewHandler(host, auth, zap.NewNop()).Routes())
	t.Cleanup(srv.Close)
	return srv, auth
}

func token(t *testing.T, auth *Authenticator, id entities.Identity) string {
	t.Helper()

	tok, err := auth.Sign(id, jwt.RegisteredClaims{})
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, srv *httptest.Server, method, path, tok, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestQuestionLifecycle(t *testing.T) {
	srv, auth := newTestServer(t)
	ownerTok := token(t, auth, owner)

	resp, _ := do(t, srv, http.MethodPost, "/questions", ownerTok, `{"prompt":"What color is the sky?","answer":"Blue"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/questions/0", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "What color is the sky?", body["prompt"])
	assert.Equal(t, service.NewAnswerVerifier().Hash("Blue").String(), body["answer_digest"])

	resp, body = do(t, srv, http.MethodPost, "/questions/0/check", "", `{"attempt":"Blue"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["correct"])

	resp, body = do(t, srv, http.MethodPost, "/questions/0/check", "", `{"attempt":"Green XD"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "WrongAnswer", body["error"])

	resp, body = do(t, srv, http.MethodGet, "/questions/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "QuestionDoesntExist", body["error"])

	resp, body = do(t, srv, http.MethodGet, "/questions/count", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
}

func TestAddQuestionPermissions(t *testing.T) {
	srv, auth := newTestServer(t)
	payload := `{"prompt":"p","answer":"a"}`

	resp, _ := do(t, srv, http.MethodPost, "/questions", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/questions", token(t, auth, "stranger"), payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "InvalidCaller", body["error"])

	forged, err := NewAuthenticator("other-secret").Sign(owner, jwt.RegisteredClaims{})
	require.NoError(t, err)
	resp, _ = do(t, srv, http.MethodPost, "/questions", forged, payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, body = do(t, srv, http.MethodGet, "/questions/count", "", "")
	assert.Equal(t, float64(0), body["count"])
}

func TestGrantEducator(t *testing.T) {
	srv, auth := newTestServer(t)
	aliceTok := token(t, auth, "alice")

	resp, body := do(t, srv, http.MethodPost, "/educators", aliceTok, `{"identity":"alice"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "InvalidCaller", body["error"])

	resp, _ = do(t, srv, http.MethodPost, "/educators", token(t, auth, owner), `{"identity":"alice"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/questions", aliceTok, `{"prompt":"p","answer":"a"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	srv, auth := newTestServer(t)
	ownerTok := token(t, auth, owner)

	resp, _ := do(t, srv, http.MethodGet, "/questions/-1", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/questions", ownerTok, `{"prompt":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/questions/0/check", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/educators", ownerTok, `{"identity":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthenticator(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	_, err := auth.Identity("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = auth.Identity("Basic abc")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = auth.Identity("Bearer not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err := auth.Sign("alice", jwt.RegisteredClaims{})
	require.NoError(t, err)
	id, err := auth.Identity("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, entities.Identity("alice"), id)

	expired, err := auth.Sign("alice", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	require.NoError(t, err)
	_, err = auth.Identity("Bearer " + expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.Identity("Bearer " + noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "owner"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.Identity("Bearer " + none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
