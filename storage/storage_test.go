package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func record(url string, segments int) map[string]any {
	return map[string]any{
		"url":      url,
		"segments": segments,
		"output":   "/videos/out.mp4",
	}
}

func TestParseFormat(t *testing.T) {
	Convey("ParseFormat", t, func() {
		Convey("Accepts every known format, case-insensitively", func() {
			for _, name := range []string{"csv", "JSON", "jsonl"} {
				_, err := ParseFormat(name)
				So(err, ShouldBeNil)
			}
		})

		Convey("Rejects unknown names", func() {
			_, err := ParseFormat("xml")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "xml")
		})
	})
}

func TestCSVWriter(t *testing.T) {
	Convey("Given a CSV writer", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		w := lo.Must(New(FormatCSV, "/reports/downloads.csv"))

		Convey("The first write emits a sorted header and one row", func() {
			So(w.Write(record("https://a.test/pl.m3u8", 12)), ShouldBeNil)

			lines := readLines("/reports/downloads.csv")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldEqual, "output,segments,url")
			So(lines[1], ShouldEqual, "/videos/out.mp4,12,https://a.test/pl.m3u8")

			Convey("Subsequent writes append rows without repeating the header", func() {
				So(w.Write(record("https://b.test/pl.m3u8", 7)), ShouldBeNil)

				lines := readLines("/reports/downloads.csv")
				So(lines, ShouldHaveLength, 3)
				So(lines[2], ShouldContainSubstring, "https://b.test/pl.m3u8")
			})
		})
	})
}

func TestJSONWriter(t *testing.T) {
	Convey("Given a JSON writer", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		w := lo.Must(New(FormatJSON, "/reports/downloads.json"))

		Convey("Appending merges into a single array", func() {
			So(w.Write(record("https://a.test/pl.m3u8", 12)), ShouldBeNil)
			So(w.Write(record("https://b.test/pl.m3u8", 7)), ShouldBeNil)

			var records []map[string]any
			data := lo.Must(filesystem.API().ReadFile("/reports/downloads.json"))
			So(json.Unmarshal(data, &records), ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0]["url"], ShouldEqual, "https://a.test/pl.m3u8")
			So(records[1]["url"], ShouldEqual, "https://b.test/pl.m3u8")
		})

		Convey("A corrupt existing file is reported, not overwritten", func() {
			lo.Must0(filesystem.API().WriteFile("/reports/downloads.json", []byte("{not json"), 0644))

			err := w.Write(record("https://a.test/pl.m3u8", 1))
			So(err, ShouldNotBeNil)

			data := lo.Must(filesystem.API().ReadFile("/reports/downloads.json"))
			So(string(data), ShouldEqual, "{not json")
		})
	})
}

func TestJSONLWriter(t *testing.T) {
	Convey("Given a JSONL writer", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		w := lo.Must(New(FormatJSONL, "/reports/downloads.jsonl"))

		Convey("Each write appends exactly one parseable line", func() {
			So(w.Write(record("https://a.test/pl.m3u8", 12)), ShouldBeNil)
			So(w.Write(record("https://b.test/pl.m3u8", 7)), ShouldBeNil)

			lines := readLines("/reports/downloads.jsonl")
			So(lines, ShouldHaveLength, 2)

			for _, line := range lines {
				var decoded map[string]any
				So(json.Unmarshal([]byte(line), &decoded), ShouldBeNil)
			}
		})
	})
}

func readLines(path string) []string {
	data := lo.Must(filesystem.API().ReadFile(path))
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
