package rbac

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckerPolicy(t *testing.T) {
	c := Builtin()
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"viewer", PermView, true},
		{"viewer", PermParse, false},
		{"editor", PermExport, true},
		{"editor", PermUpload, false},
		{"instructor", PermUpload, true},
		{"instructor", "users:list", false},
		{"admin", "anything", true},
		{"", PermView, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
	if !c.All("editor", PermParse, PermCreate) || c.All("editor", PermParse, PermDelete) {
		t.Fatalf("All mismatch")
	}
	if got := c.Missing("editor", PermView, PermUpload, PermDelete); got != PermUpload {
		t.Fatalf("Missing = %q", got)
	}
}

func TestNewCheckerOverrides(t *testing.T) {
	c, err := NewChecker(map[string][]string{
		"editor":    {PermView},
		"uploader":  {PermView, PermUpload},
		"archivist": {},
	})
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	if c.Has("editor", PermParse) || !c.Has("editor", PermView) {
		t.Fatalf("editor override not applied")
	}
	if !c.All("uploader", PermView, PermUpload) {
		t.Fatalf("added role missing perms")
	}
	if c.Has("archivist", PermView) {
		t.Fatalf("empty role must hold nothing")
	}
	if !c.Has("instructor", PermDelete) {
		t.Fatalf("roles not named keep the built-in policy")
	}
	if Builtin().Has("uploader", PermView) {
		t.Fatalf("override leaked into the built-in policy")
	}

	for _, bad := range []map[string][]string{
		{"editor": {"document:print"}},
		{"editor": {"users:*"}},
		{" ": {PermView}},
	} {
		if _, err := NewChecker(bad); err == nil {
			t.Fatalf("expected %v to be rejected", bad)
		}
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	serve := func(h http.Handler, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/documents/x", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	var unset *Checker
	h := unset.Require(PermDelete)(ok)
	for role, want := range map[string]int{"": 403, "editor": 403, "instructor": 204} {
		if rr := serve(h, role); rr.Code != want {
			t.Fatalf("role %q: got %d want %d", role, rr.Code, want)
		}
	}

	c, err := NewChecker(map[string][]string{"pusher": {PermUpload}})
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	both := c.Require(PermView, PermUpload)(ok)
	rr := serve(both, "pusher")
	if rr.Code != http.StatusForbidden || !strings.Contains(rr.Body.String(), PermView) {
		t.Fatalf("pusher without view: %d %q", rr.Code, rr.Body.String())
	}
	if rr := serve(both, "instructor"); rr.Code != http.StatusNoContent {
		t.Fatalf("instructor: got %d", rr.Code)
	}
}
