package playlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const mediaFixture = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:9.9,
seg000.ts
#EXTINF:10.0,
seg001.ts
#EXTINF:10.1,
seg002.ts
#EXT-X-ENDLIST
`

const mediaAbsoluteFixture = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:5
#EXTINF:4.0,
https://cdn.example.com/a.ts
#EXTINF:4.0,
https://cdn.example.com/b.ts
#EXTINF:4.0,
https://cdn.example.com/c.ts
#EXT-X-ENDLIST
`

func serve(routes map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte(body))
	}))
}

func TestResolveMediaPlaylist(t *testing.T) {
	Convey("Given a media playlist", t, func() {
		server := serve(map[string]string{"/index.m3u8": mediaFixture})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("It returns every segment URL in document order", func() {
			urls, err := r.Resolve(context.Background(), server.URL+"/index.m3u8", 0)
			So(err, ShouldBeNil)
			So(urls, ShouldHaveLength, 3)
			So(urls[0], ShouldEqual, server.URL+"/seg000.ts")
			So(urls[1], ShouldEqual, server.URL+"/seg001.ts")
			So(urls[2], ShouldEqual, server.URL+"/seg002.ts")
		})
	})

	Convey("Given a media playlist with absolute segment URIs", t, func() {
		server := serve(map[string]string{"/index.m3u8": mediaAbsoluteFixture})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("The URIs pass through unchanged", func() {
			urls, err := r.Resolve(context.Background(), server.URL+"/index.m3u8", 0)
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{
				"https://cdn.example.com/a.ts",
				"https://cdn.example.com/b.ts",
				"https://cdn.example.com/c.ts",
			})
		})
	})
}

func TestResolveMasterPlaylist(t *testing.T) {
	Convey("Given a master playlist with two variants", t, func() {
		master := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=500000
low/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1200000
high/index.m3u8
`
		high := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
chunk0.ts
#EXTINF:10.0,
chunk1.ts
#EXT-X-ENDLIST
`
		server := serve(map[string]string{
			"/master.m3u8":     master,
			"/high/index.m3u8": high,
		})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("Resolution follows the highest-bandwidth variant", func() {
			urls, err := r.Resolve(context.Background(), server.URL+"/master.m3u8", 0)
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{
				server.URL + "/high/chunk0.ts",
				server.URL + "/high/chunk1.ts",
			})
		})
	})

	Convey("Given a master playlist with tied bandwidths", t, func() {
		master := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000
first/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=800000
second/index.m3u8
`
		media := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
chunk.ts
#EXT-X-ENDLIST
`
		server := serve(map[string]string{
			"/master.m3u8":      master,
			"/first/index.m3u8": media,
		})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("The first variant in document order wins", func() {
			urls, err := r.Resolve(context.Background(), server.URL+"/master.m3u8", 0)
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{server.URL + "/first/chunk.ts"})
		})
	})
}

func TestResolveDepthLimit(t *testing.T) {
	Convey("Given a master chain longer than the depth limit", t, func() {
		outer := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1000000
inner.m3u8
`
		inner := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1000000
media.m3u8
`
		server := serve(map[string]string{
			"/outer.m3u8": outer,
			"/inner.m3u8": inner,
			"/media.m3u8": mediaFixture,
		})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("maxDepth=1 fails before reaching the media playlist", func() {
			_, err := r.Resolve(context.Background(), server.URL+"/outer.m3u8", 1)
			var depthErr *DepthError
			So(errors.As(err, &depthErr), ShouldBeTrue)
			So(depthErr.MaxDepth, ShouldEqual, 1)
		})

		Convey("A sufficient maxDepth resolves the chain", func() {
			urls, err := r.Resolve(context.Background(), server.URL+"/outer.m3u8", 5)
			So(err, ShouldBeNil)
			So(urls, ShouldHaveLength, 3)
		})
	})

	Convey("Given a cyclic master chain", t, func() {
		cycle := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1000000
cycle.m3u8
`
		server := serve(map[string]string{"/cycle.m3u8": cycle})
		defer server.Close()

		r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}

		Convey("The default depth limit terminates the walk", func() {
			_, err := r.Resolve(context.Background(), server.URL+"/cycle.m3u8", 0)
			var depthErr *DepthError
			So(errors.As(err, &depthErr), ShouldBeTrue)
			So(depthErr.MaxDepth, ShouldEqual, DefaultMaxDepth)
		})
	})
}

func TestResolveFailures(t *testing.T) {
	Convey("Resolve failure modes", t, func() {
		Convey("HTTP errors surface as a FetchError", func() {
			server := serve(map[string]string{})
			defer server.Close()

			r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}
			_, err := r.Resolve(context.Background(), server.URL+"/missing.m3u8", 0)

			var fetchErr *FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.URL, ShouldEqual, server.URL+"/missing.m3u8")
		})

		Convey("Unreachable hosts surface as a FetchError", func() {
			r := NewResolver()
			_, err := r.Resolve(context.Background(), "http://127.0.0.1:1/playlist.m3u8", 0)

			var fetchErr *FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
		})

		Convey("Invalid documents surface as a ParseError", func() {
			server := serve(map[string]string{"/bad.m3u8": "not a playlist"})
			defer server.Close()

			r := &Resolver{Client: server.Client(), Parser: M3U8Parser{}}
			_, err := r.Resolve(context.Background(), server.URL+"/bad.m3u8", 0)

			var parseErr *ParseError
			So(errors.As(err, &parseErr), ShouldBeTrue)
		})
	})
}

func TestParser(t *testing.T) {
	Convey("M3U8Parser", t, func() {
		Convey("Decodes a media playlist into segments", func() {
			node, err := M3U8Parser{}.Parse([]byte(mediaFixture))
			So(err, ShouldBeNil)
			So(node.Kind, ShouldEqual, Media)
			So(node.Segments, ShouldHaveLength, 3)
			So(node.Variants, ShouldBeEmpty)
			So(node.Segments[0].URI, ShouldEqual, "seg000.ts")
		})

		Convey("Decodes a master playlist into variants", func() {
			master := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=500000
low.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1200000
high.m3u8
`
			node, err := M3U8Parser{}.Parse([]byte(master))
			So(err, ShouldBeNil)
			So(node.Kind, ShouldEqual, Master)
			So(node.Variants, ShouldHaveLength, 2)
			So(node.Segments, ShouldBeEmpty)
			So(node.Variants[0].Bandwidth, ShouldEqual, 500000)
			So(node.Variants[1].URI, ShouldEqual, "high.m3u8")
		})
	})
}
