package objectclient

import (
	"context"
	"testing"

	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

func TestNewS3ClientRequiresSettings(t *testing.T) {
	cases := []config.Config{
		{AwsRegion: "us-east-2", BucketName: "b"},
		{AwsAccessKey: "k", AwsSecretKey: "s", BucketName: "b"},
		{AwsAccessKey: "k", AwsSecretKey: "s", AwsRegion: "us-east-2"},
	}
	for i := range cases {
		if _, err := NewS3Client(context.Background(), &cases[i], logger.Nop()); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestObjectURL(t *testing.T) {
	got := ObjectURL("lessona", "us-east-2", "lesson-plans/abc/plan.pdf")
	want := "https://lessona.s3.us-east-2.amazonaws.com/lesson-plans/abc/plan.pdf"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNoopClient(t *testing.T) {
	var c NoopClient
	url, err := c.UploadFile(context.Background(), "k", []byte("x"), "text/plain")
	if err != nil || url != "" {
		t.Fatalf("noop upload: %q %v", url, err)
	}
	if err := c.DeleteFile(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
}
