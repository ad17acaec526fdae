package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kevinm360/Sankey-Diagram/pkg/common/logger"
	"github.com/Kevinm360/Sankey-Diagram/pkg/records"
	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey"
	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey/render"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type sliceSource struct {
	records []records.ConditionRecord
	err     error
}

func (s *sliceSource) Each(fn func(records.ConditionRecord) error) error {
	if s.err != nil {
		return s.err
	}
	for _, r := range s.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

type recordingRenderer struct {
	diagram *sankey.Diagram
	calls   int
	err     error
}

func (r *recordingRenderer) Render(_ context.Context, diagram *sankey.Diagram) error {
	r.calls++
	r.diagram = diagram
	return r.err
}

func day(value string) time.Time {
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return ts
}

func journeyRecords() []records.ConditionRecord {
	return []records.ConditionRecord{
		{PatientID: "P1", Description: "A", Start: day("2020-01-01")},
		{PatientID: "P1", Description: "B", Start: day("2020-01-05")},
		{PatientID: "P2", Description: "C", Start: day("2020-01-01")},
		{PatientID: "P2", Description: "D", Start: day("2020-01-02")},
	}
}

func testService(source Source, renderer render.Renderer) *Service {
	return NewService(
		WithSource(func(Config) Source { return source }),
		WithRenderer(func(Config) render.Renderer { return renderer }),
	)
}

func TestServiceRunEndToEnd(t *testing.T) {
	renderer := &recordingRenderer{}
	service := testService(&sliceSource{records: journeyRecords()}, renderer)

	report, err := service.Run(context.Background(), Config{InputPath: "in.csv", OutputPath: "out.html"})
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if report.Records != 4 || report.Transitions != 2 || report.Observations != 2 {
		t.Fatalf("unexpected report counts: %+v", report)
	}
	if report.Labels != 4 || report.Links != 2 {
		t.Fatalf("unexpected diagram counts: %+v", report)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected exactly one render, got %d", renderer.calls)
	}

	diagram := renderer.diagram
	if diagram.Links[0].Value != 4 || diagram.Links[1].Value != 1 {
		t.Fatalf("unexpected link values: %+v", diagram.Links)
	}
	if diagram.Title != sankey.DefaultTitle {
		t.Fatalf("expected default title, got %q", diagram.Title)
	}
}

func TestServiceRunIsDeterministic(t *testing.T) {
	run := func() []byte {
		renderer := &recordingRenderer{}
		service := testService(&sliceSource{records: journeyRecords()}, renderer)
		if _, err := service.Run(context.Background(), Config{InputPath: "in.csv", OutputPath: "out.html"}); err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}
		encoded, err := json.Marshal(renderer.diagram)
		if err != nil {
			t.Fatalf("failed to encode diagram: %v", err)
		}
		return encoded
	}

	first := run()
	second := run()
	if string(first) != string(second) {
		t.Fatal("expected identical diagram models for identical input")
	}
}

func TestServiceRunEmptyStream(t *testing.T) {
	renderer := &recordingRenderer{}
	service := testService(&sliceSource{}, renderer)

	report, err := service.Run(context.Background(), Config{InputPath: "in.csv", OutputPath: "out.html"})
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if report.Records != 0 || report.Transitions != 0 || report.Links != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if !renderer.diagram.Empty() {
		t.Fatal("expected empty diagram to still be handed to the renderer")
	}
}

func TestServiceRunSourceErrorAbortsBeforeRender(t *testing.T) {
	renderer := &recordingRenderer{}
	service := testService(&sliceSource{err: errors.New("unparsable timestamp")}, renderer)

	if _, err := service.Run(context.Background(), Config{InputPath: "in.csv", OutputPath: "out.html"}); err == nil {
		t.Fatal("expected source error to surface")
	}
	if renderer.calls != 0 {
		t.Fatal("expected no render after a source failure")
	}
}

func TestServiceRunRendererErrorSurfaces(t *testing.T) {
	renderer := &recordingRenderer{err: errors.New("disk full")}
	service := testService(&sliceSource{records: journeyRecords()}, renderer)

	if _, err := service.Run(context.Background(), Config{InputPath: "in.csv", OutputPath: "out.html"}); err == nil {
		t.Fatal("expected renderer error to surface")
	}
}

func TestServiceRunValidatesConfig(t *testing.T) {
	service := testService(&sliceSource{}, &recordingRenderer{})

	if _, err := service.Run(context.Background(), Config{OutputPath: "out.html"}); err == nil {
		t.Fatal("expected missing input path to be rejected")
	}
	if _, err := service.Run(context.Background(), Config{InputPath: "in.csv"}); err == nil {
		t.Fatal("expected missing output path to be rejected")
	}
	bad := Config{InputPath: "in.csv", OutputPath: "out.html", Palette: []string{""}}
	if _, err := service.Run(context.Background(), bad); err == nil {
		t.Fatal("expected invalid palette to be rejected")
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "input_path: data/conditions.csv\n" +
		"output_path: out/diagram.html\n" +
		"title: Ward Transfers\n" +
		"columns:\n  patient: subject\n  description: condition\n  start: onset\n" +
		"palette:\n  - \"#123456\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	cfg, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected profile error: %v", err)
	}
	if cfg.InputPath != "data/conditions.csv" || cfg.Title != "Ward Transfers" {
		t.Fatalf("unexpected profile values: %+v", cfg)
	}
	if cfg.Columns.Patient != "subject" {
		t.Fatalf("unexpected column mapping: %+v", cfg.Columns)
	}
	if len(cfg.Palette) != 1 || cfg.Palette[0] != "#123456" {
		t.Fatalf("unexpected palette: %v", cfg.Palette)
	}

	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing profile file")
	}

	empty, err := LoadProfile("")
	if err != nil {
		t.Fatalf("unexpected error for empty path: %v", err)
	}
	if empty.InputPath != "" {
		t.Fatalf("expected zero config for empty path, got %+v", empty)
	}
}
