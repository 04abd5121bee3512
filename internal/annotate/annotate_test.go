// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/evidence-engine/internal/mastermind"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

const testJobID = "8a6830ab-2051-409c-b7d3-ad609bc70d49"

// fakeAnnotator walks a job through a scripted state sequence.
type fakeAnnotator struct {
	states   []string
	statusAt int
	uploaded []byte
	content  string
}

func (f *fakeAnnotator) CreateAnnotationJob(_ context.Context, assembly, filename string) (*mastermind.AnnotationJob, error) {
	return &mastermind.AnnotationJob{
		JobID:         testJobID,
		State:         mastermind.JobCreated,
		Assembly:      assembly,
		InputFilename: filename,
		UploadURL:     "https://signed.example.test/upload",
	}, nil
}

func (f *fakeAnnotator) AnnotationJobStatus(_ context.Context, jobID string) (*mastermind.AnnotationJob, error) {
	state := f.states[f.statusAt]
	if f.statusAt < len(f.states)-1 {
		f.statusAt++
	}
	job := &mastermind.AnnotationJob{JobID: jobID, State: state}
	if state == mastermind.JobSucceeded {
		job.Records = 10
		job.Annotated = 8
	}
	return job, nil
}

func (f *fakeAnnotator) UploadAnnotationInput(_ context.Context, _ string, r io.Reader) error {
	data, err := io.ReadAll(r)
	f.uploaded = data
	return err
}

func (f *fakeAnnotator) DownloadAnnotatedFile(_ context.Context, _ string, w io.Writer) error {
	_, err := w.Write([]byte(f.content))
	return err
}

func TestAnnotate_FullLifecycle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.vcf.gz")
	if err := os.WriteFile(input, []byte("compressed vcf"), 0o644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeAnnotator{
		states:  []string{mastermind.JobStarted, mastermind.JobSucceeded},
		content: "annotated output",
	}
	var out bytes.Buffer
	r := NewRunner(fake, types.AnnotateConfig{Assembly: "grch37", PollInterval: time.Millisecond}, &out)

	got, err := r.Annotate(context.Background(), input, "")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	want := filepath.Join(dir, "sample.annotated-"+testJobID+".vcf.gz")
	if got != want {
		t.Errorf("output path = %s, want %s", got, want)
	}
	if string(fake.uploaded) != "compressed vcf" {
		t.Errorf("uploaded %q", fake.uploaded)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "annotated output" {
		t.Errorf("downloaded %q", data)
	}
	if !strings.Contains(out.String(), "annotated 8 of 10 records") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestAnnotate_ResumeSkipsUpload(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.vcf")

	fake := &fakeAnnotator{
		states:  []string{mastermind.JobStarted, mastermind.JobSucceeded},
		content: "x",
	}
	r := NewRunner(fake, types.AnnotateConfig{PollInterval: time.Millisecond}, nil)

	if _, err := r.Annotate(context.Background(), input, testJobID); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if fake.uploaded != nil {
		t.Error("resumed job past created must not re-upload")
	}
}

func TestAnnotate_RejectsMalformedJobID(t *testing.T) {
	r := NewRunner(&fakeAnnotator{states: []string{mastermind.JobSucceeded}}, types.AnnotateConfig{}, nil)
	if _, err := r.Annotate(context.Background(), "in.vcf", "not-a-job-id"); err == nil {
		t.Fatal("expected error for malformed job ID")
	}
}

func TestAnnotate_FailedJob(t *testing.T) {
	fake := &fakeAnnotator{states: []string{mastermind.JobFailed}}
	r := NewRunner(fake, types.AnnotateConfig{PollInterval: time.Millisecond}, nil)
	if _, err := r.Annotate(context.Background(), "in.vcf", testJobID); err == nil {
		t.Fatal("expected error for failed job")
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a/b/sample.vcf", "a/b/sample.annotated-J.vcf.gz"},
		{"sample.vcf.gz", "sample.annotated-J.vcf.gz"},
		{"oddname", "oddname.annotated-J.vcf.gz"},
	}
	for _, tc := range cases {
		if got := OutputPath(tc.in, "J"); got != tc.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
