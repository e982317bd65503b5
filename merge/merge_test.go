package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeFFmpeg emulates the two stream-copy invocations against the
// virtualized filesystem: concat reads the manifest and joins the listed
// files byte-for-byte, remux copies the intermediate container verbatim.
type fakeFFmpeg struct {
	failConcat bool
	failRemux  bool
	calls      []string
}

func (f *fakeFFmpeg) Run(_ context.Context, _ string, args ...string) error {
	fs := filesystem.API()
	output := args[len(args)-1]

	if lo.Contains(args, "concat") {
		f.calls = append(f.calls, "concat")
		if f.failConcat {
			return errors.New("exit status 1")
		}

		manifest := args[lo.IndexOf(args, "-i")+1]
		listing := lo.Must(fs.ReadFile(manifest))

		var joined []byte
		for _, line := range strings.Split(strings.TrimSpace(string(listing)), "\n") {
			path := strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")
			joined = append(joined, lo.Must(fs.ReadFile(path))...)
		}
		return fs.WriteFile(output, joined, 0644)
	}

	f.calls = append(f.calls, "remux")
	if f.failRemux {
		_ = fs.WriteFile(output, []byte("partial"), 0644)
		return errors.New("exit status 1")
	}

	input := args[lo.IndexOf(args, "-i")+1]
	return fs.WriteFile(output, lo.Must(fs.ReadFile(input)), 0644)
}

func writeSegments(count int) []string {
	var paths []string
	for i := 0; i < count; i++ {
		path := fmt.Sprintf("/work/ts_segments/segment_%05d.ts", i)
		lo.Must0(filesystem.API().WriteFile(path, []byte(fmt.Sprintf("<segment %d>", i)), 0644))
		paths = append(paths, path)
	}
	return paths
}

func TestMergeAndConvert(t *testing.T) {
	Convey("Given ordered segment files", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		lo.Must0(filesystem.API().MkdirAll("/work/ts_segments", 0755))

		segments := writeSegments(5)
		runner := &fakeFFmpeg{}
		p := &Pipeline{Runner: runner, FFmpegPath: "ffmpeg"}

		Convey("The output payload equals the in-order concatenation", func() {
			err := p.MergeAndConvert(context.Background(), segments, "/work/merged_video.ts", "/videos/out.mp4")
			So(err, ShouldBeNil)
			So(runner.calls, ShouldResemble, []string{"concat", "remux"})

			var want []byte
			for i := 0; i < 5; i++ {
				want = append(want, []byte(fmt.Sprintf("<segment %d>", i))...)
			}
			So(lo.Must(filesystem.API().ReadFile("/videos/out.mp4")), ShouldResemble, want)

			Convey("The intermediate container remains for workspace cleanup", func() {
				exists := lo.Must(filesystem.API().Exists("/work/merged_video.ts"))
				So(exists, ShouldBeTrue)
			})

			Convey("The manifest does not survive the call", func() {
				exists := lo.Must(filesystem.API().Exists("/work/merged_video.ts.txt"))
				So(exists, ShouldBeFalse)
			})
		})

		Convey("A failing concat surfaces as a MergeError", func() {
			runner.failConcat = true
			err := p.MergeAndConvert(context.Background(), segments, "/work/merged_video.ts", "/videos/out.mp4")

			var mergeErr *MergeError
			So(errors.As(err, &mergeErr), ShouldBeTrue)
			So(runner.calls, ShouldResemble, []string{"concat"})

			Convey("The manifest is still removed", func() {
				exists := lo.Must(filesystem.API().Exists("/work/merged_video.ts.txt"))
				So(exists, ShouldBeFalse)
			})
		})

		Convey("A failing remux surfaces as a ConvertError", func() {
			runner.failRemux = true
			err := p.MergeAndConvert(context.Background(), segments, "/work/merged_video.ts", "/videos/out.mp4")

			var convertErr *ConvertError
			So(errors.As(err, &convertErr), ShouldBeTrue)

			Convey("No partial file remains at the output path", func() {
				exists := lo.Must(filesystem.API().Exists("/videos/out.mp4"))
				So(exists, ShouldBeFalse)
			})

			Convey("The manifest is still removed", func() {
				exists := lo.Must(filesystem.API().Exists("/work/merged_video.ts.txt"))
				So(exists, ShouldBeFalse)
			})
		})
	})
}

func TestManifestFormat(t *testing.T) {
	Convey("The manifest lists one single-quoted absolute path per line, in order", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		lo.Must0(filesystem.API().MkdirAll("/work", 0755))

		So(writeManifest("/work/list.txt", []string{"/a/0.ts", "/a/1.ts"}), ShouldBeNil)

		content := string(lo.Must(filesystem.API().ReadFile("/work/list.txt")))
		So(content, ShouldEqual, "file '/a/0.ts'\nfile '/a/1.ts'\n")
	})
}

func TestLastLine(t *testing.T) {
	Convey("lastLine", t, func() {
		So(lastLine("a\nb\nc\n"), ShouldEqual, "c")
		So(lastLine("only"), ShouldEqual, "only")
		So(lastLine("  \n \n"), ShouldEqual, "")
	})
}
