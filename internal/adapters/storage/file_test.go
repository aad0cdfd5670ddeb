package storage_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/eqbar/internal/adapters/storage"
	"github.com/smartystreets/goconvey/convey"
)

func writeString(s string) storage.WriteFunc {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func entries(dir string) []string {
	des, err := os.ReadDir(dir)
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}

func TestWriteFile(t *testing.T) {
	convey.Convey("Given a writable directory", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "chart.png")

		convey.Convey("When the write succeeds", func() {
			n, err := storage.WriteFile(path, writeString("hello"))

			convey.Convey("Then the file holds the content and nothing else is left", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 5)
				data, err := os.ReadFile(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, "hello")
				convey.So(entries(dir), convey.ShouldResemble, []string{"chart.png"})
			})
		})

		convey.Convey("When the write callback fails", func() {
			boom := errors.New("boom")
			_ = os.WriteFile(path, []byte("previous"), 0o644)
			_, err := storage.WriteFile(path, func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return boom
			})

			convey.Convey("Then the previous file survives and the temp file is gone", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
				data, _ := os.ReadFile(path)
				convey.So(string(data), convey.ShouldEqual, "previous")
				convey.So(entries(dir), convey.ShouldResemble, []string{"chart.png"})
			})
		})

		convey.Convey("When the target is an existing directory", func() {
			target := filepath.Join(dir, "occupied")
			convey.So(os.Mkdir(target, 0o755), convey.ShouldBeNil)
			_, err := storage.WriteFile(target, writeString("x"))

			convey.Convey("Then the rename fails and no temp file remains", func() {
				convey.So(errors.Is(err, storage.ErrWrite), convey.ShouldBeTrue)
				convey.So(entries(dir), convey.ShouldResemble, []string{"occupied"})
			})
		})
	})

	convey.Convey("Given a missing directory", t, func() {
		path := filepath.Join(t.TempDir(), "missing", "chart.png")
		_, err := storage.WriteFile(path, writeString("x"))

		convey.So(errors.Is(err, storage.ErrNoDirectory), convey.ShouldBeTrue)
		_, statErr := os.Stat(path)
		convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
	})
}
