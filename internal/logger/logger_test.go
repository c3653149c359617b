package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// capture points the package at a buffer and restores the defaults when
// the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off by default")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose on after SetVerbose(true)")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off after SetVerbose(false)")
	}
}

func TestLevelPrefixes(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{
			name: "debug",
			log:  func() { Debug("scanned %s: %d hooks", "includes/post.php", 3) },
			want: "[DEBUG] scanned includes/post.php: 3 hooks\n",
		},
		{
			name: "info",
			log:  func() { Info("fetched %d files from %s", 128, "woocommerce") },
			want: "[INFO] fetched 128 files from woocommerce\n",
		},
		{
			name: "warn",
			log:  func() { Warn("download failed, using cached extraction") },
			want: "[WARN] download failed, using cached extraction\n",
		},
		{
			name: "section",
			log:  func() { Section("Indexing woocommerce") },
			want: "\n=== Indexing woocommerce ===\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t)
			SetVerbose(true)
			tt.log()
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuietByDefault(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("scanned %s", "includes/post.php")
	Info("run finished")
	Warn("rate limited")
	Section("Indexing woocommerce")

	if buf.Len() > 0 {
		t.Errorf("expected no output without --verbose, got %q", buf.String())
	}
}

func TestConcurrentToggle(t *testing.T) {
	capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d scanning", i)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
