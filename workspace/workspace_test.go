package workspace

import (
	"path/filepath"
	"testing"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPrepare(t *testing.T) {
	Convey("Prepare", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Creates a unique root when no directory is requested", func() {
			w, err := Prepare("", "/videos/out.mp4", true)
			So(err, ShouldBeNil)
			So(w.Root, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(w.Root)), ShouldBeTrue)
			So(lo.Must(filesystem.API().IsDir(w.SegmentsDir)), ShouldBeTrue)
			So(w.SegmentsDir, ShouldEqual, filepath.Join(w.Root, "ts_segments"))

			Convey("Distinct calls yield distinct roots", func() {
				other, err := Prepare("", "/videos/out2.mp4", true)
				So(err, ShouldBeNil)
				So(other.Root, ShouldNotEqual, w.Root)
			})
		})

		Convey("Reuses a requested directory", func() {
			w, err := Prepare("/scratch/job1", "/videos/out.mp4", false)
			So(err, ShouldBeNil)
			So(w.Root, ShouldEqual, "/scratch/job1")
			So(lo.Must(filesystem.API().IsDir("/scratch/job1/ts_segments")), ShouldBeTrue)
		})

		Convey("Creates the output file's parent directory", func() {
			_, err := Prepare("", "/videos/nested/out.mp4", true)
			So(err, ShouldBeNil)
			So(lo.Must(filesystem.API().IsDir("/videos/nested")), ShouldBeTrue)
		})

		Convey("IntermediatePath lives under the root", func() {
			w, err := Prepare("/scratch/job2", "out.mp4", true)
			So(err, ShouldBeNil)
			So(w.IntermediatePath(), ShouldEqual, filepath.Join(w.Root, "merged_video.ts"))
		})
	})
}

func TestCleanup(t *testing.T) {
	Convey("Cleanup", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Removes the root when cleanup is enabled", func() {
			w := lo.Must(Prepare("/scratch/job", "out.mp4", true))
			So(filesystem.API().WriteFile(filepath.Join(w.SegmentsDir, "seg.ts"), []byte("x"), 0644), ShouldBeNil)

			So(w.Cleanup(), ShouldBeNil)
			So(lo.Must(filesystem.API().DirExists(w.Root)), ShouldBeFalse)
		})

		Convey("Preserves the root when cleanup is disabled", func() {
			w := lo.Must(Prepare("/scratch/keep", "out.mp4", false))
			So(w.Cleanup(), ShouldBeNil)
			So(lo.Must(filesystem.API().DirExists(w.Root)), ShouldBeTrue)
		})

		Convey("Is a no-op when the root is already gone", func() {
			w := lo.Must(Prepare("/scratch/gone", "out.mp4", true))
			So(filesystem.API().RemoveAll(w.Root), ShouldBeNil)
			So(w.Cleanup(), ShouldBeNil)
		})
	})
}
