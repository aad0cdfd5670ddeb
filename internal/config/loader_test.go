package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/eqbar/internal/config"
	"github.com/okian/eqbar/internal/domain/barplot"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EQBAR_OUTPUT_PATH", "/tmp/out.svg")
			_ = os.Setenv("EQBAR_FORMAT", "svg")
			_ = os.Setenv("EQBAR_DPI", "300")
			_ = os.Setenv("EQBAR_TITLE_COUNT", "3")
			_ = os.Setenv("EQBAR_PALETTE", "#000000, #ffffff")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "/tmp/out.svg")
				convey.So(cfg.Format, convey.ShouldEqual, "svg")
				convey.So(cfg.DPI, convey.ShouldEqual, 300)
				convey.So(cfg.TitleCount, convey.ShouldEqual, 3)
				convey.So(cfg.Palette, convey.ShouldResemble, []string{"#000000", "#ffffff"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
title: "Rotation test"
width_in: 8
samples:
  - label: "Before"
    value: 0.5
  - label: "After"
    value: 0.25
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EQBAR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values replace defaults and lists are not merged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Title, convey.ShouldEqual, "Rotation test")
				convey.So(cfg.WidthIn, convey.ShouldEqual, 8)
				convey.So(cfg.HeightIn, convey.ShouldEqual, 3)
				convey.So(cfg.Samples, convey.ShouldResemble, []barplot.Sample{
					{Label: "Before", Value: 0.5},
					{Label: "After", Value: 0.25},
				})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("output_path: from-file.png\nformat: png\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EQBAR_CONFIG", tmpFile)
			_ = os.Setenv("EQBAR_OUTPUT_PATH", "from-env.png")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputPath, convey.ShouldEqual, "from-env.png")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EQBAR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("EQBAR_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("EQBAR_DPI", "not_a_number")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct {
			name string
			env  string
			val  string
			want string
		}{
			{"empty output path", "EQBAR_OUTPUT_PATH", " ", "output_path must not be empty"},
			{"unknown format", "EQBAR_FORMAT", "gif", "format"},
			{"zero dpi", "EQBAR_DPI", "0", "dpi"},
			{"bad palette", "EQBAR_PALETTE", "red", "palette"},
			{"negative count", "EQBAR_TITLE_COUNT", "-1", "title_count"},
			{"zero max samples", "EQBAR_MAX_SAMPLES", "0", "max_samples"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.env, tc.val)

				cfg, err := config.Load(ctx)
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
			})
		}

		convey.Convey("When a configured sample is negative", func() {
			tmpFile := createTempConfigFile("samples:\n  - label: bad\n    value: -1\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EQBAR_CONFIG", tmpFile)

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, barplot.ErrInvalidSample), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EQBAR_CONFIG",
		"EQBAR_OUTPUT_PATH",
		"EQBAR_FORMAT",
		"EQBAR_DPI",
		"EQBAR_TITLE_COUNT",
		"EQBAR_PALETTE",
		"EQBAR_MAX_SAMPLES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "eqbar-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
