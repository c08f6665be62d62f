package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docket/internal/audit"
	"docket/internal/auth"
	"docket/internal/auth/store/revocation"
	"docket/internal/blob"
	"docket/internal/document"
	"docket/internal/jurisdiction"
	"docket/internal/jwttoken"
	"docket/internal/user"
)

const routerTestMaxBytes = 1 << 20

// RouterSuite drives the full HTTP surface against memory-backed services.
type RouterSuite struct {
	suite.Suite

	server *httptest.Server
	blobs  *blob.MemoryStore
	bcID   uuid.UUID
	vanID  uuid.UUID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auditor := audit.NewPublisher(audit.NewMemoryStore(), logger)
	tokens := auth.NewService(
		jwttoken.NewService("router-test-key", "docket", "docket-api"),
		revocation.NewMemoryList(), auditor, logger,
		15*time.Minute, 7*24*time.Hour,
	)
	users := user.NewService(user.NewMemoryStore(), tokens, auditor, logger)

	s.bcID, s.vanID = uuid.New(), uuid.New()
	jStore := jurisdiction.NewMemoryStore()
	s.Require().NoError(jStore.Seed(context.Background(), []jurisdiction.Node{
		{ID: s.bcID, Code: "BC", Name: "British Columbia", Level: jurisdiction.LevelProvincial, LegalSystem: jurisdiction.LegalSystemCommonLaw},
		{ID: s.vanID, Code: "VAN", Name: "Vancouver", Level: jurisdiction.LevelMunicipal, LegalSystem: jurisdiction.LegalSystemCommonLaw, ParentID: &s.bcID},
	}))
	jurisdictions := jurisdiction.NewService(jStore, nil, 0, logger)

	s.blobs = blob.NewMemoryStore()
	docs := document.NewService(document.NewMemoryStore(), s.blobs, jurisdictions, auditor, logger, routerTestMaxBytes)

	router := NewRouter(Deps{
		Auth:          NewAuthHandler(users, tokens, logger),
		Documents:     NewDocumentHandler(docs, logger, routerTestMaxBytes),
		Jurisdictions: NewJurisdictionHandler(jurisdictions, logger),
		Verifier:      tokens,
		Logger:        logger,
	})
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *RouterSuite) registerUser() sessionResponse {
	body := `{"email":"a@example.com","name":"A","password":"password123"}`
	resp := s.post("/auth/register", "application/json", strings.NewReader(body), "")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var session sessionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&session))
	return session
}

func (s *RouterSuite) post(path, contentType string, body io.Reader, bearer string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", contentType)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) do(method, path, bearer string, body io.Reader) *http.Response {
	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) uploadDocument(bearer string) document.Document {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("title", "Meeting notes"))
	s.Require().NoError(mw.WriteField("tags", "x,x,y"))
	s.Require().NoError(mw.WriteField("jurisdiction_ids", s.bcID.String()+","+s.vanID.String()))
	part, err := mw.CreateFormFile("file", "notes.txt")
	s.Require().NoError(err)
	_, err = part.Write([]byte("hello"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	resp := s.post("/documents", mw.FormDataContentType(), &buf, bearer)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var doc document.Document
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&doc))
	return doc
}

func (s *RouterSuite) TestRegisterLoginAndRefresh() {
	session := s.registerUser()
	s.NotEmpty(session.Tokens.AccessToken)

	resp := s.post("/auth/login", "application/json",
		strings.NewReader(`{"email":"a@example.com","password":"password123"}`), "")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	refreshBody := `{"refresh_token":"` + session.Tokens.RefreshToken + `"}`
	resp2 := s.post("/auth/refresh", "application/json", strings.NewReader(refreshBody), "")
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)

	// The rotated-out token is burned; presenting it again is reuse.
	resp3 := s.post("/auth/refresh", "application/json", strings.NewReader(refreshBody), "")
	defer resp3.Body.Close()
	s.Equal(http.StatusUnauthorized, resp3.StatusCode)
}

func (s *RouterSuite) TestLogout() {
	session := s.registerUser()

	body := `{"refresh_token":"` + session.Tokens.RefreshToken + `"}`
	resp := s.post("/auth/logout", "application/json", strings.NewReader(body), "")
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp2 := s.post("/auth/refresh", "application/json", strings.NewReader(body), "")
	defer resp2.Body.Close()
	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *RouterSuite) TestDocumentsRequireAuth() {
	resp := s.do(http.MethodGet, "/documents", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestDocumentLifecycle() {
	session := s.registerUser()
	bearer := session.Tokens.AccessToken
	doc := s.uploadDocument(bearer)
	s.Equal([]string{"x", "y"}, doc.Tags)

	resp := s.do(http.MethodGet, "/documents/"+doc.ID.String(), bearer, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var got document.Document
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Len(got.JurisdictionIDs, 2)

	dl := s.do(http.MethodGet, "/documents/"+doc.ID.String()+"/download", bearer, nil)
	defer dl.Body.Close()
	s.Equal(http.StatusOK, dl.StatusCode)
	s.Equal("text/plain; charset=utf-8", dl.Header.Get("Content-Type"))
	body, err := io.ReadAll(dl.Body)
	s.Require().NoError(err)
	s.Equal("hello", string(body))

	del := s.do(http.MethodDelete, "/documents/"+doc.ID.String(), bearer, nil)
	defer del.Body.Close()
	s.Equal(http.StatusNoContent, del.StatusCode)

	gone := s.do(http.MethodGet, "/documents/"+doc.ID.String(), bearer, nil)
	defer gone.Body.Close()
	s.Equal(http.StatusNotFound, gone.StatusCode)
}

func (s *RouterSuite) TestUpdateDocument() {
	session := s.registerUser()
	bearer := session.Tokens.AccessToken
	doc := s.uploadDocument(bearer)

	resp := s.do(http.MethodPatch, "/documents/"+doc.ID.String(), bearer,
		strings.NewReader(`{"title":"Revised notes","tags":["z"]}`))
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var got document.Document
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal("Revised notes", got.Title)
	s.Equal([]string{"z"}, got.Tags)
}

func (s *RouterSuite) TestUploadRejectsUnknownJurisdiction() {
	session := s.registerUser()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("title", "Bad refs"))
	s.Require().NoError(mw.WriteField("jurisdiction_ids", uuid.NewString()))
	part, err := mw.CreateFormFile("file", "notes.txt")
	s.Require().NoError(err)
	_, err = part.Write([]byte("hello"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	resp := s.post("/documents", mw.FormDataContentType(), &buf, session.Tokens.AccessToken)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errBody struct {
		Error string         `json:"error"`
		Meta  map[string]any `json:"meta"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errBody))
	s.Equal("invalid_jurisdiction_reference", errBody.Error)
	s.Contains(errBody.Meta, "missing_ids")
	s.Zero(s.blobs.Len())
}

func (s *RouterSuite) TestJurisdictionTreeIsPublic() {
	resp := s.do(http.MethodGet, "/jurisdictions/tree", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Jurisdictions []jurisdiction.TreeNode `json:"jurisdictions"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Len(body.Jurisdictions, 1)
	s.Equal("BC", body.Jurisdictions[0].Code)
}

func (s *RouterSuite) TestHealthz() {
	resp := s.do(http.MethodGet, "/healthz", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
