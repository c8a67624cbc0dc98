package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goto/encoded/core/search"
	"github.com/goto/encoded/core/user"
	"github.com/goto/encoded/internal/server"
	"github.com/goto/encoded/internal/server/mocks"
	"github.com/goto/encoded/internal/testutils"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var identity = server.IdentityConfig{
	HeaderKeyUserUUID:   "Encoded-User-UUID",
	HeaderKeyUserEmail:  "Encoded-User-Email",
	HeaderKeyUserGroups: "Encoded-User-Groups",
}

func newRouter(svc server.SearchService) http.Handler {
	return server.NewRouter(server.RouterConfig{
		Logger:        log.NewNoop(),
		Identity:      identity,
		SearchService: svc,
		BrowseType:    "ExperimentSetReplicate",
	})
}

func sampleResult(route search.Route) search.Result {
	return search.Result{
		Context:      "/terms/",
		ID:           route.Path + "?type=Organism",
		Type:         []string{route.Name},
		Title:        route.Name,
		Filters:      []search.Filter{{Field: "type", Term: "Organism", Remove: route.Path}},
		Facets:       []search.Facet{},
		Graph:        []search.Document{{"@id": "/organisms/mouse/", "name": "mouse"}},
		Notification: search.NotificationSuccess,
		Total:        1,
		Status:       http.StatusOK,
	}
}

func TestSearchHandler(t *testing.T) {
	type testCase struct {
		Description  string
		Path         string
		Header       http.Header
		Setup        func(*mocks.SearchService)
		ExpectStatus int
		ExpectType   string
		PostCheck    func(t *testing.T, body []byte)
	}

	testCases := []testCase{
		{
			Description: "should return JSON-LD search result",
			Path:        "/search/?type=Organism",
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "type=Organism").Return(sampleResult(search.SearchRoute()), nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "application/json",
			PostCheck: func(t *testing.T, body []byte) {
				var got map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "/search/?type=Organism", got["@id"])
				assert.Equal(t, []interface{}{"Search"}, got["@type"])
				assert.Equal(t, float64(1), got["total"])
				assert.Len(t, got["@graph"], 1)
				assert.NotContains(t, got, "Status")
			},
		},
		{
			Description: "should serve browse with its own route",
			Path:        "/browse/",
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.BrowseRoute("ExperimentSetReplicate"), "").Return(sampleResult(search.BrowseRoute("ExperimentSetReplicate")), nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "application/json",
		},
		{
			Description: "should use result status for empty results",
			Path:        "/search/?type=Organism&name=unicorn",
			Setup: func(svc *mocks.SearchService) {
				res := sampleResult(search.SearchRoute())
				res.Graph = []search.Document{}
				res.Total = 0
				res.Notification = search.NotificationNoResults
				res.Status = http.StatusNotFound
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "type=Organism&name=unicorn").Return(res, nil)
			},
			ExpectStatus: http.StatusNotFound,
			ExpectType:   "application/json",
			PostCheck: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `"@graph":[]`)
				assert.Contains(t, string(body), `"notification":"No results found"`)
			},
		},
		{
			Description: "should return bad request for invalid types",
			Path:        "/search/?type=Foo&type=Bar",
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "type=Foo&type=Bar").Return(search.Result{}, search.InvalidTypeError{Types: []string{"Foo", "Bar"}})
			},
			ExpectStatus: http.StatusBadRequest,
			ExpectType:   "application/json",
			PostCheck: func(t *testing.T, body []byte) {
				testutils.AssertEqualJSON(t, `{
					"@type": ["HTTPBadRequest", "Error"],
					"status": "error",
					"code": 400,
					"title": "Bad Request",
					"description": "Invalid type: Foo, Bar"
				}`, body)
			},
		},
		{
			Description: "should return internal error with a reference",
			Path:        "/search/",
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "").Return(search.Result{}, search.StoreError{Op: "Search", Err: errors.New("connection refused")})
			},
			ExpectStatus: http.StatusInternalServerError,
			ExpectType:   "application/json",
			PostCheck: func(t *testing.T, body []byte) {
				var got server.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, []string{"HTTPInternalServerError", "Error"}, got.Type)
				assert.NotContains(t, got.Description, "connection refused")
				assert.Contains(t, got.Detail, "ref: ")
			},
		},
		{
			Description: "should render html when browsers ask for it",
			Path:        "/search/?type=Organism",
			Header:      http.Header{"Accept": []string{"text/html,application/xhtml+xml"}},
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "type=Organism").Return(sampleResult(search.SearchRoute()), nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "text/html; charset=utf-8",
			PostCheck: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `<script type="application/json" id="data">`)
				assert.Contains(t, string(body), `href="/organisms/mouse/"`)
				assert.Contains(t, string(body), `"@id":"/organisms/mouse/"`)
			},
		},
		{
			Description: "should prefer the format param over the accept header",
			Path:        "/search/?type=Organism&format=json",
			Header:      http.Header{"Accept": []string{"text/html"}},
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "type=Organism&format=json").Return(sampleResult(search.SearchRoute()), nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "application/json",
		},
		{
			Description: "should render html for format=html",
			Path:        "/search/?format=html",
			Setup: func(svc *mocks.SearchService) {
				svc.EXPECT().Search(mock.Anything, search.SearchRoute(), "format=html").Return(sampleResult(search.SearchRoute()), nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectType:   "text/html; charset=utf-8",
		},
		{
			Description:  "should redirect paths without trailing slash",
			Path:         "/search?type=Organism",
			ExpectStatus: http.StatusMovedPermanently,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			svc := mocks.NewSearchService(t)
			if tc.Setup != nil {
				tc.Setup(svc)
			}

			req := httptest.NewRequest(http.MethodGet, tc.Path, nil)
			for k, v := range tc.Header {
				req.Header[k] = v
			}
			rr := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tc.ExpectStatus, rr.Code)
			if tc.ExpectType != "" {
				assert.Equal(t, tc.ExpectType, rr.Header().Get("content-type"))
			}
			if tc.PostCheck != nil {
				tc.PostCheck(t, rr.Body.Bytes())
			}
		})
	}
}

func TestUserHeaderCtx(t *testing.T) {
	const userUUID = "0f6a2f4e-5e3c-4c2b-9f7a-1d1c7e7c1a11"

	testCases := []struct {
		Description string
		Header      http.Header
		Expected    user.User
	}{
		{
			Description: "should propagate identified users",
			Header: http.Header{
				"Encoded-User-Uuid":   []string{userUUID},
				"Encoded-User-Email":  []string{"user@example.com"},
				"Encoded-User-Groups": []string{"admin, submitter,,"},
			},
			Expected: user.User{UUID: userUUID, Email: "user@example.com", Groups: []string{"admin", "submitter"}},
		},
		{
			Description: "should treat a missing uuid as anonymous",
			Header:      http.Header{"Encoded-User-Email": []string{"user@example.com"}},
			Expected:    user.User{},
		},
		{
			Description: "should treat an invalid uuid as anonymous",
			Header: http.Header{
				"Encoded-User-Uuid":   []string{"not-a-uuid"},
				"Encoded-User-Groups": []string{"admin"},
			},
			Expected: user.User{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			var got user.User
			h := server.UserHeaderCtx(identity)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = user.FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/search/", nil)
			req.Header = tc.Header
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestHeartbeat(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(mocks.NewSearchService(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestRouterPassesUserToService(t *testing.T) {
	const userUUID = "0f6a2f4e-5e3c-4c2b-9f7a-1d1c7e7c1a11"

	svc := mocks.NewSearchService(t)
	svc.EXPECT().Search(mock.MatchedBy(func(ctx context.Context) bool {
		return user.FromContext(ctx).UUID == userUUID
	}), search.SearchRoute(), "").Return(sampleResult(search.SearchRoute()), nil)

	req := httptest.NewRequest(http.MethodGet, "/search/", nil)
	req.Header.Set("Encoded-User-UUID", userUUID)
	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
