package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":       {Data: []byte("<html>home</html>")},
		"team.html":        {Data: []byte("<html>team</html>")},
		"data.json":        {Data: []byte(`{"ctfs":[]}`)},
		"assets/app.js":    {Data: []byte("console.log('app')")},
		"assets/style.css": {Data: []byte("body{}")},
		"docs/index.html":  {Data: []byte("docs")},
	}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler over a generated directory", t, func() {
		h := NewHandler(newTestFS())

		Convey("Then / should serve index.html", func() {
			w := get(h, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "<html>home</html>")
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
		})

		Convey("And an existing file should be served as is", func() {
			w := get(h, "/data.json")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, `{"ctfs":[]}`)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})

		Convey("And nested assets should be served", func() {
			w := get(h, "/assets/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "console.log('app')")
		})

		Convey("And an extensionless path should fall back to .html", func() {
			w := get(h, "/team?id=alpha")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "<html>team</html>")
		})

		Convey("And a directory without a matching .html should be 404", func() {
			w := get(h, "/docs")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldEqual, "Not Found")
		})

		Convey("And a missing path should be 404 with a plain body", func() {
			w := get(h, "/missing")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldEqual, "Not Found")
		})

		Convey("And traversal outside the root should never escape", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.URL.Path = "/../../etc/passwd"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And HEAD requests should carry no body", func() {
			req := httptest.NewRequest(http.MethodHead, "/index.html", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.Len(), ShouldEqual, 0)
		})
	})
}

func TestRegister(t *testing.T) {
	Convey("Given a dist directory on disk", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "index.html"), []byte("root"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "team.html"), []byte("team"), 0o644), ShouldBeNil)
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(context.Background(), mux, dir)

			Convey("Then the root and fallbacks should resolve", func() {
				So(get(mux, "/").Body.String(), ShouldEqual, "root")
				So(get(mux, "/team").Body.String(), ShouldEqual, "team")
				So(get(mux, "/index.html/extra").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { Register(context.Background(), nil, dir) }, ShouldPanic)
			})
		})
	})
}
