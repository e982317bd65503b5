package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Orders versions component by component", func() {
			So(compare(t, "1.2.3", "1.2.2"), ShouldEqual, 1)
			So(compare(t, "1.2.3", "1.3.0"), ShouldEqual, -1)
			So(compare(t, "2.0.0", "1.9.9"), ShouldEqual, 1)
			So(compare(t, "0.1.0", "0.1.0"), ShouldEqual, 0)
		})

		Convey("Accepts a leading v prefix", func() {
			So(compare(t, "v1.0.1", "1.0.0"), ShouldEqual, 1)
		})

		Convey("Rejects malformed strings", func() {
			_, err := Compare("not-a-version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func compare(t *testing.T, a, b string) int {
	t.Helper()
	result, err := Compare(a, b)
	So(err, ShouldBeNil)
	return result
}
