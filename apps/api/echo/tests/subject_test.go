package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/ratiba/core/subject"
)

func Test_subjectApi(t *testing.T) {
	app := setup(t)

	// create
	req, rec := newRequest(http.MethodPost, "/v1/subjects", []byte(`{"name":" Mathematics ","color":4294198070,"teacher_name":"Mr. Banner"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v, want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var math subject.Subject
	decodeObj(t, rec, &math)
	if math.ID == "" || math.Name != "Mathematics" || math.Color != 4294198070 || math.TeacherName.String != "Mr. Banner" {
		t.Errorf("created subject = %+v", math)
	}

	req, rec = newRequest(http.MethodPost, "/v1/subjects", []byte(`{"name":"Physics","teacher_name":"Ms. Curie"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v, want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var physics subject.Subject
	decodeObj(t, rec, &physics)

	tests := []httpTest{
		{
			name: "create: name required", method: http.MethodPost, path: "/v1/subjects", body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "create: duplicate name", method: http.MethodPost, path: "/v1/subjects", body: []byte(`{"name":"mathematics"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "a subject with this name already exists"}),
		},
		{
			name: "query", method: http.MethodGet, path: "/v1/subjects",
			wantCode: http.StatusOK, wantData: marchallList(t, math, physics),
		},
		{
			name: "search", method: http.MethodGet, path: "/v1/subjects?search=math",
			wantCode: http.StatusOK, wantData: marchallList(t, math),
		},
		{
			name: "search: typo", method: http.MethodGet, path: "/v1/subjects?search=physcis",
			wantCode: http.StatusOK, wantData: marchallList(t, physics),
		},
		{
			name: "search: no match", method: http.MethodGet, path: "/v1/subjects?search=zzzzzz",
			wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...),
		},
		{
			name: "retrieve", method: http.MethodGet, path: "/v1/subjects/" + math.ID,
			wantCode: http.StatusOK, wantData: marchallObj(t, math),
		},
		{
			name: "retrieve: not found", method: http.MethodGet, path: "/v1/subjects/nope",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("update", func(t *testing.T) {
		req, rec := newRequest(http.MethodPatch, "/v1/subjects/"+math.ID, []byte(`{"teacher_name":"Mrs. Banner"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got subject.Subject
		decodeObj(t, rec, &got)
		if got.Name != "Mathematics" || got.TeacherName.String != "Mrs. Banner" {
			t.Errorf("updated subject = %+v", got)
		}
	})

	t.Run("update: taken name rejected", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "a subject with this name already exists"}),
		}
		req, rec := newRequest(http.MethodPatch, "/v1/subjects/"+math.ID, []byte(`{"name":"Physics"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/v1/subjects/"+physics.ID)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v, want %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newRequest(http.MethodGet, "/v1/subjects/"+physics.ID)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v after delete", rec.Code, http.StatusNotFound)
		}
	})
}
